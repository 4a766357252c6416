package message

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"pet_adoption_server/internal/dao/memory"
	"pet_adoption_server/internal/dao/mysql/repository"
	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/infrastructure/mq"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/constants"
	"pet_adoption_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ctx = context.Background()

	_ mq.Notifier = (*messageService)(nil)
)

type fakePusher struct {
	mu     sync.Mutex
	online map[string]bool
	frames map[string][][]byte
}

func (p *fakePusher) PushToUser(userId string, payload []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.online[userId] {
		return false
	}
	p.frames[userId] = append(p.frames[userId], payload)
	return true
}

func newFixture(t *testing.T) (*messageService, *repository.Repositories, *fakePusher) {
	t.Helper()
	repos := memory.NewRepositories(memory.NewStore())
	for _, id := range []string{"alice", "bob", "carol"} {
		require.NoError(t, repos.User.Create(&model.UserInfo{Uuid: id, Email: id + "@example.com", Name: id}))
	}
	pusher := &fakePusher{online: map[string]bool{"bob": true}, frames: map[string][][]byte{}}
	return NewMessageService(repos, pusher), repos, pusher
}

func TestSendPushesToOnlineReceiver(t *testing.T) {
	s, _, pusher := newFixture(t)

	rsp, err := s.Send(ctx, "alice", request.SendMessageRequest{ReceiverId: "bob", Content: " 你好 "})
	require.NoError(t, err)
	assert.Equal(t, "你好", rsp.Content)
	assert.False(t, rsp.IsRead)

	require.Len(t, pusher.frames["bob"], 1)
	var frame struct {
		Type string `json:"type"`
		Data struct {
			Id       string `json:"id"`
			SenderId string `json:"sender_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(pusher.frames["bob"][0], &frame))
	assert.Equal(t, PushMessage, frame.Type)
	assert.Equal(t, rsp.Id, frame.Data.Id)
	assert.Equal(t, "alice", frame.Data.SenderId)

	_, err = s.Send(ctx, "bob", request.SendMessageRequest{ReceiverId: "carol", Content: "离线也落库"})
	require.NoError(t, err)
	assert.Empty(t, pusher.frames["carol"])
}

func TestSendGuards(t *testing.T) {
	s, _, _ := newFixture(t)

	_, err := s.Send(ctx, "alice", request.SendMessageRequest{ReceiverId: "alice", Content: "hi"})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
	_, err = s.Send(ctx, "alice", request.SendMessageRequest{ReceiverId: "ghost", Content: "hi"})
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	_, err = s.Send(ctx, "alice", request.SendMessageRequest{ReceiverId: "bob", Content: "hi", PetId: "missing"})
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	_, err = s.Send(ctx, "alice", request.SendMessageRequest{ReceiverId: "bob", Content: "   "})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestConversationMarksInboundRead(t *testing.T) {
	s, _, _ := newFixture(t)
	first, err := s.Send(ctx, "alice", request.SendMessageRequest{ReceiverId: "bob", Content: "1"})
	require.NoError(t, err)
	_, err = s.Send(ctx, "bob", request.SendMessageRequest{ReceiverId: "alice", Content: "2"})
	require.NoError(t, err)
	_, err = s.Send(ctx, "carol", request.SendMessageRequest{ReceiverId: "bob", Content: "other"})
	require.NoError(t, err)

	unread, err := s.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread.Count)

	msgs, meta, err := s.Conversation(ctx, "bob", "alice", request.PageQuery{})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.EqualValues(t, 2, meta.Total)
	assert.Equal(t, first.Id, msgs[0].Id, "按时间正序")
	assert.True(t, msgs[0].IsRead)

	unread, _ = s.UnreadCount(ctx, "bob")
	assert.EqualValues(t, 1, unread.Count, "只标记该会话")
	aliceUnread, _ := s.UnreadCount(ctx, "alice")
	assert.EqualValues(t, 1, aliceUnread.Count, "自己发出的不受影响")
}

func TestConversationsList(t *testing.T) {
	s, _, _ := newFixture(t)
	_, _ = s.Send(ctx, "alice", request.SendMessageRequest{ReceiverId: "bob", Content: "a1"})
	_, _ = s.Send(ctx, "alice", request.SendMessageRequest{ReceiverId: "bob", Content: "a2"})
	_, _ = s.Send(ctx, "bob", request.SendMessageRequest{ReceiverId: "carol", Content: "c1"})
	require.NoError(t, s.CreateNotification(ctx, "bob", "有人申请领养「旺财」，请及时处理", "pet-1"))

	list, err := s.Conversations(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, constants.SYSTEM_SENDER_ID, list[0].User.Id)
	assert.Equal(t, "系统通知", list[0].User.Name)
	assert.EqualValues(t, 1, list[0].UnreadCount)

	assert.Equal(t, "carol", list[1].User.Id)
	assert.Equal(t, "c1", list[1].LastMessage.Content)
	assert.Zero(t, list[1].UnreadCount)

	assert.Equal(t, "alice", list[2].User.Id)
	assert.Equal(t, "a2", list[2].LastMessage.Content)
	assert.EqualValues(t, 2, list[2].UnreadCount)
}

func TestNotificationPushedAsNotification(t *testing.T) {
	s, repos, pusher := newFixture(t)
	require.NoError(t, s.CreateNotification(ctx, "bob", "恭喜！", "pet-1"))

	inbox, _, err := s.Inbox(ctx, "bob", request.PageQuery{})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, constants.SYSTEM_SENDER_ID, inbox[0].SenderId)
	assert.Equal(t, "pet-1", inbox[0].PetId)

	var frame struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(pusher.frames["bob"][0], &frame))
	assert.Equal(t, PushNotification, frame.Type)

	unread, _ := repos.Message.CountUnread("bob")
	assert.EqualValues(t, 1, unread)
}

func TestMarkRead(t *testing.T) {
	s, repos, _ := newFixture(t)
	msg, err := s.Send(ctx, "alice", request.SendMessageRequest{ReceiverId: "bob", Content: "hi"})
	require.NoError(t, err)

	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(s.MarkRead(ctx, msg.Id, "alice")))
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(s.MarkRead(ctx, "missing", "bob")))
	require.NoError(t, s.MarkRead(ctx, msg.Id, "bob"))
	require.NoError(t, s.MarkRead(ctx, msg.Id, "bob"))

	stored, _ := repos.Message.FindByUuid(msg.Id)
	assert.True(t, stored.IsRead)
}
