package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet_adoption_server/internal/config"
	"pet_adoption_server/internal/dao/memory"
	dao "pet_adoption_server/internal/dao/mysql"
	"pet_adoption_server/internal/dao/mysql/repository"
	myredis "pet_adoption_server/internal/dao/redis"
	"pet_adoption_server/internal/gateway/websocket"
	"pet_adoption_server/internal/handler"
	"pet_adoption_server/internal/https_server"
	"pet_adoption_server/internal/infrastructure/logger"
	"pet_adoption_server/internal/infrastructure/middleware"
	"pet_adoption_server/internal/infrastructure/storage"
	"pet_adoption_server/internal/service"
	"pet_adoption_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()
	zap.L().Info("日志初始化成功", zap.String("mode", conf.MainConfig.Mode))
	if conf.MainConfig.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. 参数校验翻译
	if err := handler.InitTrans(conf.MainConfig.Locale); err != nil {
		zap.L().Fatal("初始化校验翻译器失败", zap.Error(err))
	}

	// 4. 初始化数据层
	repos, err := initRepositories(conf)
	if err != nil {
		zap.L().Fatal("数据库初始化失败", zap.Error(err))
	}
	zap.L().Info("数据库初始化成功", zap.String("driver", conf.Driver))

	// 5. 初始化缓存，Redis 不可用时降级为进程内缓存
	cache, counter := initCache(conf)
	defer cache.Close()

	// 6. 初始化 JWT
	jwt.Init(conf.JWTConfig.Secret, time.Duration(conf.ExpiryHours)*time.Hour)

	// 7. 初始化对象存储
	st, err := storage.New(&conf.StorageConfig, &conf.StaticSrcConfig)
	if err != nil {
		zap.L().Fatal("对象存储初始化失败", zap.Error(err))
	}
	var staticRoot string
	if local, ok := st.(*storage.LocalStorage); ok {
		staticRoot = local.Root()
	}

	// 8. 初始化 Service 层 (依赖注入)
	hub := websocket.NewHub()
	svc, err := service.NewServices(service.Deps{
		Repos:   repos,
		Cache:   cache,
		Storage: st,
		Pusher:  hub,
		Config:  conf,
	})
	if err != nil {
		zap.L().Fatal("Service 层初始化失败", zap.Error(err))
	}
	zap.L().Info("Service 层初始化成功", zap.String("event_mode", conf.MessageMode))

	// 9. 限流
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	limiter := middleware.NewLimiter(&conf.RateLimitConfig, counter)
	if ml, ok := limiter.(*middleware.MemoryLimiter); ok {
		ml.StartCleanup(ctx, 5*time.Minute)
	}
	zap.L().Info("限流初始化成功", zap.String("mode", limiter.Mode()), zap.Int("rpm", conf.RequestsPerMinute))

	// 10. 初始化 HTTPS 服务器
	engine := https_server.Init(conf, handler.NewHandlers(svc, hub, conf.MainConfig.TLS), https_server.Options{
		Limiter:    limiter,
		StaticRoot: staticRoot,
	})
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}

	// 11. 启动服务
	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 等待信号
	<-quit
	zap.L().Info("关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("服务器关闭超时", zap.Error(err))
	}
	hub.Close()
	if err := svc.Close(); err != nil {
		zap.L().Error("关闭事件总线失败", zap.Error(err))
	}

	zap.L().Info("服务器已关闭")
}

func initRepositories(conf *config.Config) (*repository.Repositories, error) {
	if conf.Driver == "memory" {
		zap.L().Warn("使用内存存储，重启后数据丢失")
		return memory.NewRepositories(memory.NewStore()), nil
	}
	return dao.Init(&conf.MysqlConfig)
}

// initCache 返回缓存以及 redis 限流用的计数器，未连上 Redis 时计数器为 nil
func initCache(conf *config.Config) (myredis.AsyncCacheService, middleware.Counter) {
	if !conf.RedisConfig.Enabled {
		zap.L().Info("Redis 未启用，使用进程内缓存")
		return memory.NewCache(), nil
	}
	rc, err := myredis.Init(&conf.RedisConfig, &conf.CacheConfig)
	if err != nil {
		zap.L().Warn("Redis 不可用，降级为进程内缓存", zap.Error(err))
		return memory.NewCache(), nil
	}
	zap.L().Info("Redis 初始化成功")
	return rc, rc
}
