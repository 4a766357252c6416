// Package router 提供 HTTP 路由注册
// 本文件定义私信相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册私信相关路由（需要认证）
// 包括收件箱、会话、未读数和已读标记
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	messageGroup := rg.Group("/messages")
	{
		messageGroup.GET("", rt.handlers.Message.List)                        // 收件箱或与某人的会话
		messageGroup.POST("", rt.handlers.Message.Send)                       // 发送私信
		messageGroup.GET("/conversations", rt.handlers.Message.Conversations) // 会话列表
		messageGroup.GET("/unread-count", rt.handlers.Message.UnreadCount)    // 未读数
		messageGroup.PUT("/:id/read", rt.handlers.Message.MarkRead)           // 标记已读
	}
}
