// Package handler 提供 HTTP 请求处理器
// 本文件处理私信相关的 API 请求
package handler

import (
	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/dto/respond"
	"pet_adoption_server/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler 私信处理器
type MessageHandler struct {
	messageSvc service.MessageService
}

// NewMessageHandler 创建私信处理器
func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// List 收件箱；带 with 参数时返回与该用户的会话
// GET /api/messages?with=&page=&limit=
func (h *MessageHandler) List(c *gin.Context) {
	var q request.MessageListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := currentUserId(c)
	var (
		list []respond.MessageRespond
		meta *respond.PageMeta
		err  error
	)
	if q.With != "" {
		list, meta, err = h.messageSvc.Conversation(c.Request.Context(), userId, q.With, q.PageQuery)
	} else {
		list, meta, err = h.messageSvc.Inbox(c.Request.Context(), userId, q.PageQuery)
	}
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccessWithMeta(c, list, meta)
}

// Send 发送私信
// POST /api/messages
// 请求体: request.SendMessageRequest
func (h *MessageHandler) Send(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.Send(c.Request.Context(), currentUserId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// Conversations 会话列表
// GET /api/messages/conversations
func (h *MessageHandler) Conversations(c *gin.Context) {
	data, err := h.messageSvc.Conversations(c.Request.Context(), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UnreadCount GET /api/messages/unread-count
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	data, err := h.messageSvc.UnreadCount(c.Request.Context(), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MarkRead PUT /api/messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	if err := h.messageSvc.MarkRead(c.Request.Context(), c.Param("id"), currentUserId(c)); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
