package memory

import (
	"pet_adoption_server/internal/model"
)

type messageRepository struct {
	s *Store
	tx bool
}

func (r *messageRepository) FindByUuid(uuid string) (*model.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	msg, ok := r.s.messages[uuid]
	if !ok {
		return nil, notFound("消息", uuid)
	}
	return &msg, nil
}

func (r *messageRepository) Create(message *model.Message) error {
	defer r.s.lockWrite(r.tx)()
	r.s.stamp(&message.Model)
	r.s.messages[message.Uuid] = *message
	return nil
}

func (r *messageRepository) collect(match func(model.Message) bool, desc bool) []model.Message {
	var out []model.Message
	for _, msg := range r.s.messages {
		if match(msg) {
			out = append(out, msg)
		}
	}
	sortByID(out, func(m model.Message) uint { return m.ID }, desc)
	return out
}

func (r *messageRepository) FindConversation(userOneId, userTwoId string, offset, limit int) ([]model.Message, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	msgs := r.collect(func(m model.Message) bool {
		return (m.SenderId == userOneId && m.ReceiverId == userTwoId) ||
			(m.SenderId == userTwoId && m.ReceiverId == userOneId)
	}, false)
	return page(msgs, offset, limit), int64(len(msgs)), nil
}

func (r *messageRepository) FindByReceiver(receiverId string, offset, limit int) ([]model.Message, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	msgs := r.collect(func(m model.Message) bool { return m.ReceiverId == receiverId }, true)
	return page(msgs, offset, limit), int64(len(msgs)), nil
}

func (r *messageRepository) FindRecentByUser(userId string, limit int) ([]model.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	msgs := r.collect(func(m model.Message) bool { return m.SenderId == userId || m.ReceiverId == userId }, true)
	return page(msgs, 0, limit), nil
}

func (r *messageRepository) MarkRead(uuid string) error {
	defer r.s.lockWrite(r.tx)()
	if msg, ok := r.s.messages[uuid]; ok {
		msg.IsRead = true
		r.s.messages[uuid] = msg
	}
	return nil
}

func (r *messageRepository) MarkConversationRead(receiverId, senderId string) error {
	defer r.s.lockWrite(r.tx)()
	for id, msg := range r.s.messages {
		if msg.ReceiverId == receiverId && msg.SenderId == senderId && !msg.IsRead {
			msg.IsRead = true
			r.s.messages[id] = msg
		}
	}
	return nil
}

func (r *messageRepository) CountUnread(receiverId string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, msg := range r.s.messages {
		if msg.ReceiverId == receiverId && !msg.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *messageRepository) CountUnreadBySender(receiverId string) (map[string]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make(map[string]int64)
	for _, msg := range r.s.messages {
		if msg.ReceiverId == receiverId && !msg.IsRead {
			result[msg.SenderId]++
		}
	}
	return result, nil
}
