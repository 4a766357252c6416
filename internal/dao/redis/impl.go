// Package redis 提供 CacheService 接口的 Redis 实现
package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"pet_adoption_server/pkg/errorx"
)

// RedisCache Redis 缓存实现
// 同时实现 CacheService 和 AsyncCacheService。
// 限流中间件只依赖 CacheService，宠物服务需要异步队列，依赖 AsyncCacheService。
type RedisCache struct {
	client   *redis.Client
	taskChan chan func()

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewRedisCache 创建 Redis 缓存实例并启动 Worker Pool
func NewRedisCache(client *redis.Client, workerNum, taskChanSize int) *RedisCache {
	rc := &RedisCache{
		client:   client,
		taskChan: make(chan func(), taskChanSize),
	}
	rc.wg.Add(workerNum)
	for i := 0; i < workerNum; i++ {
		go rc.startWorker()
	}
	zap.L().Info("Redis Cache Workers started", zap.Int("workers", workerNum), zap.Int("buffer", taskChanSize))
	return rc
}

// startWorker 启动单个 Worker 消费循环
func (r *RedisCache) startWorker() {
	defer r.wg.Done()
	for task := range r.taskChan {
		runTask(task)
	}
}

// runTask 单个任务 panic 不影响 Worker
func runTask(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("Redis Worker panic", zap.Any("recover", rec))
		}
	}()
	if task != nil {
		task()
	}
}

// ==================== String 操作 ====================

// Set 设置键值对并指定过期时间
func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis set key %s", key)
	}
	return nil
}

// Get 获取键对应的值（键不存在返回空字符串和 nil）
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

// GetOrError 获取键对应的值（键不存在返回错误）
func (r *RedisCache) GetOrError(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errorx.Wrapf(err, errorx.CodeNotFound, "redis key %s not found", key)
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

// ==================== Key 操作 ====================

// Delete 删除键（如果存在）
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Unlink(ctx, key).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis unlink key %s", key)
	}
	return nil
}

// DeleteByPattern 删除匹配模式的所有键
func (r *RedisCache) DeleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		var keys []string
		var err error
		keys, cursor, err = r.client.Scan(ctx, cursor, pattern, 500).Result()
		if err != nil {
			return errorx.Wrapf(err, errorx.CodeCacheError, "redis scan pattern %s", pattern)
		}
		if len(keys) > 0 {
			if err := r.client.Unlink(ctx, keys...).Err(); err != nil {
				return errorx.Wrapf(err, errorx.CodeCacheError, "redis unlink keys with pattern %s", pattern)
			}
		}
		if cursor == 0 {
			break
		}
	}
	return nil
}

// ==================== 计数 ====================

// IncrWithExpire INCR 与 EXPIRE 放在同一个 MULTI 中执行
// 限流键按分钟分桶，每次刷新 TTL 不影响窗口边界
func (r *RedisCache) IncrWithExpire(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, errorx.Wrapf(err, errorx.CodeCacheError, "redis incr key %s", key)
	}
	return incr.Val(), nil
}

// ==================== 异步任务 ====================

// SubmitTask 提交异步缓存任务，通道满或已关闭时同步执行
func (r *RedisCache) SubmitTask(action func()) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		runTask(action)
		return
	}
	select {
	case r.taskChan <- action:
	default:
		zap.L().Warn("Redis cache task channel full, executing synchronously")
		runTask(action)
	}
}

// Close 关闭任务通道并等待 Worker 退出
func (r *RedisCache) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.taskChan)
	r.mu.Unlock()
	r.wg.Wait()
}

// 确保 RedisCache 实现了 AsyncCacheService 接口
var _ AsyncCacheService = (*RedisCache)(nil)
