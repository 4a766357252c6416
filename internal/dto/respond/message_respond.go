package respond

import (
	"time"

	"pet_adoption_server/internal/model"
)

// MessageRespond 私信，同时作为 WebSocket 推送的 data
type MessageRespond struct {
	Id         string    `json:"id"`
	SenderId   string    `json:"sender_id"`
	ReceiverId string    `json:"receiver_id"`
	Content    string    `json:"content"`
	PetId      string    `json:"pet_id,omitempty"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConversationRespond 会话列表项：对方信息、最后一条消息和未读数
type ConversationRespond struct {
	User        PublicUserRespond `json:"user"`
	LastMessage MessageRespond    `json:"last_message"`
	UnreadCount int64             `json:"unread_count"`
}

// UnreadCountRespond 未读总数
type UnreadCountRespond struct {
	Count int64 `json:"count"`
}

// NewMessageRespond 转换为 MessageRespond
func NewMessageRespond(m *model.Message) MessageRespond {
	return MessageRespond{
		Id:         m.Uuid,
		SenderId:   m.SenderId,
		ReceiverId: m.ReceiverId,
		Content:    m.Content,
		PetId:      m.PetId,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}

// NewMessageListRespond 批量转换消息
func NewMessageListRespond(msgs []model.Message) []MessageRespond {
	list := make([]MessageRespond, 0, len(msgs))
	for i := range msgs {
		list = append(list, NewMessageRespond(&msgs[i]))
	}
	return list
}
