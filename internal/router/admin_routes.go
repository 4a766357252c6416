// Package router 提供 HTTP 路由注册
// 本文件定义管理员相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes 注册管理员相关路由
// 这些接口只能由管理员调用
func (rt *Router) RegisterAdminRoutes(rg *gin.RouterGroup) {
	adminGroup := rg.Group("/admin")
	{
		// ===== 用户管理 =====
		adminGroup.GET("/users", rt.handlers.User.ListUsers)        // 分页查询用户
		adminGroup.PUT("/users/:id/role", rt.handlers.User.SetRole) // 修改用户角色
	}
}
