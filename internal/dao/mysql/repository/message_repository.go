package repository

import (
	"pet_adoption_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// FindByUuid 按 UUID 查找消息
func (r *messageRepository) FindByUuid(uuid string) (*model.Message, error) {
	var message model.Message
	if err := r.db.First(&message, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 uuid=%s", uuid)
	}
	return &message, nil
}

// Create 创建消息
func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// FindConversation 按发送者和接收者查找消息（双向）
func (r *messageRepository) FindConversation(userOneId, userTwoId string, offset, limit int) ([]model.Message, int64, error) {
	query := r.db.Model(&model.Message{}).Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userOneId, userTwoId, userTwoId, userOneId)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBErrorf(err, "统计会话消息 user1=%s user2=%s", userOneId, userTwoId)
	}
	var messages []model.Message
	if err := query.Order("created_at ASC, id ASC").Offset(offset).Limit(limit).Find(&messages).Error; err != nil {
		return nil, 0, wrapDBErrorf(err, "查询会话消息 user1=%s user2=%s", userOneId, userTwoId)
	}
	return messages, total, nil
}

// FindByReceiver 收件箱
func (r *messageRepository) FindByReceiver(receiverId string, offset, limit int) ([]model.Message, int64, error) {
	query := r.db.Model(&model.Message{}).Where("receiver_id = ?", receiverId)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBErrorf(err, "统计收件箱 receiver_id=%s", receiverId)
	}
	var messages []model.Message
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&messages).Error; err != nil {
		return nil, 0, wrapDBErrorf(err, "查询收件箱 receiver_id=%s", receiverId)
	}
	return messages, total, nil
}

// FindRecentByUser 用户收发的最近消息
func (r *messageRepository) FindRecentByUser(userId string, limit int) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("sender_id = ? OR receiver_id = ?", userId, userId).
		Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询最近消息 user_id=%s", userId)
	}
	return messages, nil
}

// MarkRead 标记单条消息已读
func (r *messageRepository) MarkRead(uuid string) error {
	if err := r.db.Model(&model.Message{}).Where("uuid = ?", uuid).Update("is_read", true).Error; err != nil {
		return wrapDBErrorf(err, "标记已读 uuid=%s", uuid)
	}
	return nil
}

// MarkConversationRead 打开会话时批量标记已读
func (r *messageRepository) MarkConversationRead(receiverId, senderId string) error {
	if err := r.db.Model(&model.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverId, senderId, false).
		Update("is_read", true).Error; err != nil {
		return wrapDBErrorf(err, "批量标记已读 receiver_id=%s sender_id=%s", receiverId, senderId)
	}
	return nil
}

// CountUnread 未读总数
func (r *messageRepository) CountUnread(receiverId string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Message{}).Where("receiver_id = ? AND is_read = ?", receiverId, false).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计未读 receiver_id=%s", receiverId)
	}
	return count, nil
}

type unreadRow struct {
	SenderId string
	Total    int64
}

// CountUnreadBySender 按发送者分组统计未读
func (r *messageRepository) CountUnreadBySender(receiverId string) (map[string]int64, error) {
	var rows []unreadRow
	if err := r.db.Model(&model.Message{}).Select("sender_id, COUNT(*) AS total").
		Where("receiver_id = ? AND is_read = ?", receiverId, false).
		Group("sender_id").Scan(&rows).Error; err != nil {
		return nil, wrapDBErrorf(err, "分组统计未读 receiver_id=%s", receiverId)
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.SenderId] = row.Total
	}
	return result, nil
}
