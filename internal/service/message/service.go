// Package message 站内私信与系统通知
package message

import (
	"context"
	"encoding/json"
	"strings"

	"pet_adoption_server/internal/dao/mysql/repository"
	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/dto/respond"
	"pet_adoption_server/internal/gateway/websocket"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/constants"
	"pet_adoption_server/pkg/errorx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 推送帧类型
const (
	PushMessage      = "message"
	PushNotification = "notification"
)

// systemProfile 系统通知在会话列表里的展示信息
var systemProfile = respond.PublicUserRespond{Id: constants.SYSTEM_SENDER_ID, Name: "系统通知"}

type messageService struct {
	repos  *repository.Repositories
	pusher websocket.Pusher
}

// NewMessageService 构造函数，pusher 为 nil 时只落库不推送
func NewMessageService(repos *repository.Repositories, pusher websocket.Pusher) *messageService {
	return &messageService{repos: repos, pusher: pusher}
}

// Send 发送私信，接收者在线时通过 WebSocket 推送
func (s *messageService) Send(ctx context.Context, senderId string, req request.SendMessageRequest) (*respond.MessageRespond, error) {
	if req.ReceiverId == senderId {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能给自己发送消息")
	}
	if _, err := s.repos.User.FindByUuid(req.ReceiverId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "接收者不存在")
		}
		zap.L().Error("查询接收者失败", zap.String("receiver_id", req.ReceiverId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if req.PetId != "" {
		if _, err := s.repos.Pet.FindByUuid(req.PetId); err != nil {
			if errorx.IsNotFound(err) {
				return nil, errorx.New(errorx.CodeNotFound, "宠物不存在")
			}
			zap.L().Error("查询宠物失败", zap.String("pet_id", req.PetId), zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	}
	return s.create(senderId, req.ReceiverId, content, req.PetId, PushMessage)
}

// CreateNotification 写入系统通知，由申请事件消费者调用
func (s *messageService) CreateNotification(ctx context.Context, receiverId, content, petId string) error {
	_, err := s.create(constants.SYSTEM_SENDER_ID, receiverId, content, petId, PushNotification)
	return err
}

func (s *messageService) create(senderId, receiverId, content, petId, pushType string) (*respond.MessageRespond, error) {
	msg := &model.Message{
		Uuid:       uuid.NewString(),
		SenderId:   senderId,
		ReceiverId: receiverId,
		Content:    content,
		PetId:      petId,
	}
	if err := s.repos.Message.Create(msg); err != nil {
		zap.L().Error("保存消息失败", zap.String("sender_id", senderId), zap.String("receiver_id", receiverId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := respond.NewMessageRespond(msg)
	s.push(receiverId, pushType, rsp)
	return &rsp, nil
}

func (s *messageService) push(userId, pushType string, data respond.MessageRespond) {
	if s.pusher == nil {
		return
	}
	payload, err := json.Marshal(websocket.Envelope{Type: pushType, Data: data})
	if err != nil {
		zap.L().Error("编码推送消息失败", zap.Error(err))
		return
	}
	if !s.pusher.PushToUser(userId, payload) {
		zap.L().Debug("接收者不在线，消息仅落库", zap.String("user_id", userId))
	}
}

// Conversation 与 otherId 的双向消息，按时间正序，同时把对方发来的消息标为已读
func (s *messageService) Conversation(ctx context.Context, userId, otherId string, q request.PageQuery) ([]respond.MessageRespond, *respond.PageMeta, error) {
	page, limit, offset := q.Normalize()
	msgs, total, err := s.repos.Message.FindConversation(userId, otherId, offset, limit)
	if err != nil {
		zap.L().Error("查询会话失败", zap.String("user_id", userId), zap.String("other_id", otherId), zap.Error(err))
		return nil, nil, errorx.ErrServerBusy
	}
	if err := s.repos.Message.MarkConversationRead(userId, otherId); err != nil {
		zap.L().Warn("标记会话已读失败", zap.String("user_id", userId), zap.Error(err))
	} else {
		for i := range msgs {
			if msgs[i].ReceiverId == userId {
				msgs[i].IsRead = true
			}
		}
	}
	return respond.NewMessageListRespond(msgs), &respond.PageMeta{Total: total, Page: page, Limit: limit}, nil
}

// Inbox 收件箱，按时间倒序
func (s *messageService) Inbox(ctx context.Context, userId string, q request.PageQuery) ([]respond.MessageRespond, *respond.PageMeta, error) {
	page, limit, offset := q.Normalize()
	msgs, total, err := s.repos.Message.FindByReceiver(userId, offset, limit)
	if err != nil {
		zap.L().Error("查询收件箱失败", zap.String("user_id", userId), zap.Error(err))
		return nil, nil, errorx.ErrServerBusy
	}
	return respond.NewMessageListRespond(msgs), &respond.PageMeta{Total: total, Page: page, Limit: limit}, nil
}

// Conversations 会话列表：每个联系人的最后一条消息和未读数，最近的在前
// 只扫描最近 CONVERSATION_WINDOW 条消息
func (s *messageService) Conversations(ctx context.Context, userId string) ([]respond.ConversationRespond, error) {
	recent, err := s.repos.Message.FindRecentByUser(userId, constants.CONVERSATION_WINDOW)
	if err != nil {
		zap.L().Error("查询最近消息失败", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	unread, err := s.repos.Message.CountUnreadBySender(userId)
	if err != nil {
		zap.L().Error("统计未读失败", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	var order []string
	last := make(map[string]model.Message)
	for _, m := range recent {
		other := m.SenderId
		if other == userId {
			other = m.ReceiverId
		}
		if _, seen := last[other]; seen {
			continue
		}
		last[other] = m
		order = append(order, other)
	}

	users, err := s.repos.User.FindByUuids(order)
	if err != nil {
		zap.L().Error("批量查询用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	profiles := make(map[string]respond.PublicUserRespond, len(users)+1)
	for i := range users {
		profiles[users[i].Uuid] = respond.NewPublicUserRespond(&users[i])
	}
	profiles[constants.SYSTEM_SENDER_ID] = systemProfile

	list := make([]respond.ConversationRespond, 0, len(order))
	for _, other := range order {
		msg := last[other]
		profile, ok := profiles[other]
		if !ok {
			// 对方账号已不存在
			profile = respond.PublicUserRespond{Id: other}
		}
		list = append(list, respond.ConversationRespond{
			User:        profile,
			LastMessage: respond.NewMessageRespond(&msg),
			UnreadCount: unread[other],
		})
	}
	return list, nil
}

// MarkRead 只有接收者可以标记已读
func (s *messageService) MarkRead(ctx context.Context, messageId, userId string) error {
	msg, err := s.repos.Message.FindByUuid(messageId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "消息不存在")
		}
		zap.L().Error("查询消息失败", zap.String("message_id", messageId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	if msg.ReceiverId != userId {
		return errorx.New(errorx.CodeForbidden, "无权操作该消息")
	}
	if msg.IsRead {
		return nil
	}
	if err := s.repos.Message.MarkRead(messageId); err != nil {
		zap.L().Error("标记已读失败", zap.String("message_id", messageId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// UnreadCount 未读总数
func (s *messageService) UnreadCount(ctx context.Context, userId string) (*respond.UnreadCountRespond, error) {
	n, err := s.repos.Message.CountUnread(userId)
	if err != nil {
		zap.L().Error("统计未读失败", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.UnreadCountRespond{Count: n}, nil
}
