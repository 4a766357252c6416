// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件、静态资源和路由
package https_server

import (
	"pet_adoption_server/internal/config"
	"pet_adoption_server/internal/handler"
	"pet_adoption_server/internal/infrastructure/logger"
	"pet_adoption_server/internal/infrastructure/middleware"
	"pet_adoption_server/internal/router"

	"github.com/gin-gonic/gin"
)

// Options 引擎装配参数
type Options struct {
	Limiter    middleware.Limiter // 为空时不限流
	StaticRoot string             // 本地存储根目录，为空时不映射 /static
}

// Init 创建 Gin 引擎并返回
// 配置顺序：
//  1. 日志与 panic 恢复
//  2. 安全响应头、CORS、请求指标
//  3. 可选的 HTTPS 重定向
//  4. 静态资源与业务路由（限流只作用于 /api）
func Init(conf *config.Config, handlers *handler.Handlers, opts Options) *gin.Engine {
	engine := gin.New()
	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))
	engine.Use(middleware.SecureHeaders(conf.MainConfig.Mode == "dev"))
	engine.Use(middleware.Cors(nil))
	engine.Use(middleware.Metrics())

	if conf.MainConfig.TLS {
		engine.Use(middleware.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))
	}

	if opts.StaticRoot != "" {
		engine.Static("/static", opts.StaticRoot)
	}

	var extra []gin.HandlerFunc
	if opts.Limiter != nil {
		extra = append(extra, middleware.RateLimit(opts.Limiter))
	}
	router.NewRouter(handlers).RegisterRoutes(engine, extra...)
	return engine
}
