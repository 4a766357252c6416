// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接相关的 API 请求
package handler

import (
	"pet_adoption_server/internal/gateway/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WsHandler WebSocket 处理器
type WsHandler struct {
	hub *websocket.Hub
}

// NewWsHandler 创建 WebSocket 处理器
func NewWsHandler(hub *websocket.Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

// Connect 将 HTTP 连接升级为 WebSocket，用户来自 JWTAuth
// GET /api/ws
// 功能:
//   - 注册连接到该用户的在线连接集合
//   - 之后新私信和系统通知会推送到这条连接
func (h *WsHandler) Connect(c *gin.Context) {
	userId := currentUserId(c)
	// 升级失败时 upgrader 已写入错误响应
	if err := h.hub.Serve(c.Writer, c.Request, userId); err != nil {
		zap.L().Warn("ws升级失败", zap.String("user_id", userId), zap.Error(err))
	}
}
