package memory

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	myredis "pet_adoption_server/internal/dao/redis"
	"pet_adoption_server/pkg/errorx"
)

type entry struct {
	value    string
	expireAt time.Time // 零值表示永不过期
}

func (e entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

// Cache 进程内缓存，Redis 未启用时替代 RedisCache
// SubmitTask 同步执行，保证测试中异步更新立即可见
type Cache struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

// NewCache 创建进程内缓存
func NewCache() *Cache {
	return &Cache{data: make(map[string]entry), now: time.Now}
}

func (c *Cache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := entry{value: value}
	if ttl > 0 {
		e.expireAt = c.now().Add(ttl)
	}
	c.data[key] = e
	return nil
}

func (c *Cache) lookup(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.data[key]
	if !ok {
		return "", false
	}
	if e.expired(c.now()) {
		delete(c.data, key)
		return "", false
	}
	return e.value, true
}

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	value, _ := c.lookup(key)
	return value, nil
}

func (c *Cache) GetOrError(_ context.Context, key string) (string, error) {
	value, ok := c.lookup(key)
	if !ok {
		return "", errorx.Newf(errorx.CodeNotFound, "cache key %s not found", key)
	}
	return value, nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// DeleteByPattern 只支持前缀匹配（pattern 以 * 结尾）和精确匹配
func (c *Cache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix, wildcard := strings.CutSuffix(pattern, "*")
	for key := range c.data {
		if (wildcard && strings.HasPrefix(key, prefix)) || key == pattern {
			delete(c.data, key)
		}
	}
	return nil
}

func (c *Cache) IncrWithExpire(_ context.Context, key string, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	e, ok := c.data[key]
	var n int64
	if ok && !e.expired(now) {
		n = parseCount(e.value)
	}
	n++
	c.data[key] = entry{value: formatCount(n), expireAt: now.Add(ttl)}
	return n, nil
}

func (c *Cache) SubmitTask(action func()) {
	if action != nil {
		action()
	}
}

func (c *Cache) Close() {}

var _ myredis.AsyncCacheService = (*Cache)(nil)

func parseCount(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func formatCount(n int64) string {
	return strconv.FormatInt(n, 10)
}
