// Package redis 提供 Redis 缓存操作的封装
// 本文件仅包含 Redis 连接初始化逻辑
// 使用 github.com/go-redis/redis/v8 作为底层客户端
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"pet_adoption_server/internal/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Init 建立 Redis 连接并启动异步任务 Worker
// 连接失败时返回错误，由调用方决定是否降级为进程内缓存
func Init(conf *config.RedisConfig, cacheConf *config.CacheConfig) (*RedisCache, error) {
	addr := conf.Host + ":" + strconv.Itoa(conf.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conf.Password,
		DB:       conf.Db,
		// 连接池配置
		PoolSize:     50,
		MinIdleConns: cacheConf.WorkerNum, // 与 Worker 数量匹配
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接 redis %s 失败: %w", addr, err)
	}

	zap.L().Info("redis 初始化完成", zap.String("addr", addr), zap.Int("db", conf.Db))
	return NewRedisCache(client, cacheConf.WorkerNum, cacheConf.TaskChanSize), nil
}
