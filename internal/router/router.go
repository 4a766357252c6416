// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"net/http"

	"pet_adoption_server/internal/handler"
	"pet_adoption_server/internal/infrastructure/metrics"
	"pet_adoption_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器，持有 Handler 聚合
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 业务接口挂在 /api 下，extra 是只作用于 /api 的中间件（如限流）
func (rt *Router) RegisterRoutes(r *gin.Engine, extra ...gin.HandlerFunc) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api", extra...)

	// 公开接口，有 Token 时解析登录信息
	public := api.Group("", middleware.OptionalAuth())
	rt.RegisterAuthRoutes(public)
	rt.RegisterUserRoutes(public)
	rt.RegisterPetRoutes(public)

	// 需要认证的接口
	private := api.Group("", middleware.JWTAuth())
	rt.RegisterAccountRoutes(private)
	rt.RegisterMyPetRoutes(private)
	rt.RegisterApplicationRoutes(private)
	rt.RegisterMessageRoutes(private)
	rt.RegisterWebSocketRoutes(private)

	rt.RegisterAdminRoutes(private.Group("", middleware.RequireAdmin()))
}
