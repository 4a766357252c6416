// Package router 提供 HTTP 路由注册
// 本文件定义领养申请相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterApplicationRoutes 注册领养申请路由（需要认证）
func (rt *Router) RegisterApplicationRoutes(rg *gin.RouterGroup) {
	appGroup := rg.Group("/applications")
	{
		appGroup.GET("", rt.handlers.Application.List)                 // 我发出/收到的申请
		appGroup.POST("", rt.handlers.Application.Create)              // 提交申请
		appGroup.GET("/:id", rt.handlers.Application.Get)              // 申请详情
		appGroup.POST("/:id/approve", rt.handlers.Application.Approve) // 通过（发布者）
		appGroup.POST("/:id/reject", rt.handlers.Application.Reject)   // 拒绝（发布者）
	}
}
