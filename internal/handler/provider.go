// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
// 遵循依赖倒置原则，通过构造函数注入 Service 依赖
package handler

import (
	"pet_adoption_server/internal/gateway/websocket"
	"pet_adoption_server/internal/service"
)

// Handlers 聚合所有 Handler 实例
// 作为依赖注入的入口，Router 层通过此结构访问各个 Handler
type Handlers struct {
	Auth        *AuthHandler
	User        *UserHandler
	Pet         *PetHandler
	Application *ApplicationHandler
	Message     *MessageHandler
	Ws          *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
// secureCookie 为 true 时登录 Cookie 带 Secure 标记（HTTPS 部署）
func NewHandlers(svc *service.Services, hub *websocket.Hub, secureCookie bool) *Handlers {
	return &Handlers{
		Auth:        NewAuthHandler(svc.User, secureCookie),
		User:        NewUserHandler(svc.User),
		Pet:         NewPetHandler(svc.Pet),
		Application: NewApplicationHandler(svc.Application),
		Message:     NewMessageHandler(svc.Message),
		Ws:          NewWsHandler(hub),
	}
}
