package redis

import (
	"sync/atomic"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

// 不发起任何 Redis 命令，只验证 Worker Pool 行为
func newIdleCache(workers, buffer int) *RedisCache {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	return NewRedisCache(client, workers, buffer)
}

func TestSubmitTaskRunsOnWorkers(t *testing.T) {
	rc := newIdleCache(4, 16)
	var n int32
	for i := 0; i < 100; i++ {
		rc.SubmitTask(func() { atomic.AddInt32(&n, 1) })
	}
	rc.Close()
	assert.EqualValues(t, 100, atomic.LoadInt32(&n))
}

func TestSubmitAfterCloseRunsInline(t *testing.T) {
	rc := newIdleCache(1, 1)
	rc.Close()
	rc.Close()

	ran := false
	rc.SubmitTask(func() { ran = true })
	assert.True(t, ran)
}

func TestWorkerSurvivesPanic(t *testing.T) {
	rc := newIdleCache(1, 4)
	var n int32
	rc.SubmitTask(func() { panic("boom") })
	rc.SubmitTask(func() { atomic.AddInt32(&n, 1) })
	rc.Close()
	assert.EqualValues(t, 1, atomic.LoadInt32(&n))
}
