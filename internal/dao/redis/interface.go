// Package redis 定义缓存服务接口
// Service 层依赖此接口而非具体 Redis 实现
package redis

import (
	"context"
	"time"
)

// CacheService 缓存服务接口
// 抽象缓存操作，Redis 与进程内缓存都实现它
type CacheService interface {
	// ==================== String 操作 ====================

	// Set 设置键值对并指定过期时间
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get 获取键对应的值（键不存在返回空字符串和 nil）
	Get(ctx context.Context, key string) (string, error)
	// GetOrError 获取键对应的值（键不存在返回 CodeNotFound）
	GetOrError(ctx context.Context, key string) (string, error)

	// ==================== Key 操作 ====================

	// Delete 删除键（如果存在）
	Delete(ctx context.Context, key string) error
	// DeleteByPattern 删除匹配模式的所有键，pattern 只支持末尾的 *
	DeleteByPattern(ctx context.Context, pattern string) error

	// ==================== 计数 ====================

	// IncrWithExpire 计数 +1，首次创建时设置过期时间，返回自增后的值
	IncrWithExpire(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// AsyncCacheService 异步缓存服务接口
// 提供异步任务提交能力，用于非阻塞缓存更新
type AsyncCacheService interface {
	CacheService
	// SubmitTask 提交异步缓存任务
	SubmitTask(action func())
	// Close 停止接收任务并等待已提交的任务执行完毕
	Close()
}
