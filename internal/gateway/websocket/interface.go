// Package websocket 实时推送网关
// 每个在线用户可以有多条连接（多标签页），新私信推送到该用户的全部连接
package websocket

// Pusher 私信服务依赖的推送接口
type Pusher interface {
	// PushToUser 推送给用户的全部在线连接，用户不在线返回 false
	PushToUser(userId string, payload []byte) bool
}

// Envelope 推送帧格式
type Envelope struct {
	Type string `json:"type"` // message / notification
	Data any    `json:"data"`
}
