package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"pet_adoption_server/internal/config"
	"pet_adoption_server/internal/infrastructure/metrics"
	"pet_adoption_server/pkg/constants"
	"pet_adoption_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter 限流器
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Mode() string
}

// Counter 带过期的原子计数，redis.CacheService 满足该接口
type Counter interface {
	IncrWithExpire(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// NewLimiter 按 rateLimitConfig.mode 创建限流器，redis 模式需要 counter
func NewLimiter(conf *config.RateLimitConfig, counter Counter) Limiter {
	if conf.Mode == "redis" && counter != nil {
		return NewRedisLimiter(counter, conf.RequestsPerMinute)
	}
	return NewMemoryLimiter(conf.RequestsPerMinute)
}

// ==================== 进程内限流 ====================

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter 每个客户端一个令牌桶，只在单实例内有效
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
}

// NewMemoryLimiter 每分钟 perMinute 个令牌，桶容量同为 perMinute
func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &MemoryLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *MemoryLimiter) Mode() string { return "memory" }

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	l.mu.Unlock()
	return entry.limiter.Allow(), nil
}

// Cleanup 移除 idle 时间内未访问的客户端
func (l *MemoryLimiter) Cleanup(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := time.Now().Add(-idle)
	for key, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}

// StartCleanup 后台定期清理，ctx 结束后退出
func (l *MemoryLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Cleanup(interval)
			}
		}
	}()
}

// ==================== Redis 固定窗口限流 ====================

// RedisLimiter 一分钟固定窗口：INCR ratelimit:{key}:{unix/60}，多实例共享
type RedisLimiter struct {
	counter Counter
	limit   int64
	now     func() time.Time
}

// NewRedisLimiter 创建 Redis 限流器
func NewRedisLimiter(counter Counter, perMinute int) *RedisLimiter {
	return &RedisLimiter{counter: counter, limit: int64(perMinute), now: time.Now}
}

func (l *RedisLimiter) Mode() string { return "redis" }

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	window := l.now().Unix() / 60
	redisKey := constants.RATE_LIMIT_KEY_PREFIX + key + ":" + strconv.FormatInt(window, 10)
	n, err := l.counter.IncrWithExpire(ctx, redisKey, time.Minute)
	if err != nil {
		return true, err
	}
	return n <= l.limit, nil
}

// ==================== 中间件 ====================

// RateLimit 限流中间件，计数存储故障时放行
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ClientKey(c)
		allowed, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			zap.L().Error("rate limiter failed, request allowed", zap.String("key", key), zap.Error(err))
		}
		if !allowed {
			metrics.RecordRateLimited(l.Mode())
			zap.L().Warn("rate limit exceeded",
				zap.String("key", key),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code": errorx.CodeTooManyRequests,
				"msg":  errorx.ErrTooManyRequests.Msg,
			})
			return
		}
		c.Next()
	}
}

// ClientKey 客户端标识：X-Forwarded-For 第一个地址，其次 X-Real-IP，最后对端地址
func ClientKey(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}
