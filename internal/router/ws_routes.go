// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 相关路由（需要认证）
// 浏览器握手时会自动带上登录 Cookie
// 请求示例: ws://host:port/api/ws
func (rt *Router) RegisterWebSocketRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws", rt.handlers.Ws.Connect)
}
