// Package router 提供 HTTP 路由注册
// 本文件定义认证与个人资料相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册无需登录的认证路由
func (rt *Router) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", rt.handlers.Auth.Register) // 邮箱注册
		authGroup.POST("/login", rt.handlers.Auth.Login)       // 登录并写入 Cookie
		authGroup.POST("/logout", rt.handlers.Auth.Logout)     // 清除 Cookie
	}
}

// RegisterAccountRoutes 注册当前用户的资料路由（需要认证）
func (rt *Router) RegisterAccountRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.GET("/me", rt.handlers.Auth.Me)
		authGroup.PUT("/profile", rt.handlers.Auth.UpdateProfile)
		authGroup.POST("/avatar", rt.handlers.Auth.UploadAvatar)
	}
}
