package service

import (
	"context"
	"testing"

	"pet_adoption_server/internal/config"
	"pet_adoption_server/internal/dao/memory"
	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/infrastructure/storage"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 申请事件经 channel 总线消费后写成系统通知
func TestApplicationEventsBecomeNotifications(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	conf := config.Default()
	conf.MessageMode = "channel"

	svc, err := NewServices(Deps{
		Repos:   repos,
		Cache:   memory.NewCache(),
		Storage: storage.NewLocalStorage(t.TempDir(), ""),
		Config:  conf,
	})
	require.NoError(t, err)

	require.NoError(t, repos.User.Create(&model.UserInfo{Uuid: "publisher", Email: "p@example.com", Name: "p"}))
	require.NoError(t, repos.User.Create(&model.UserInfo{Uuid: "adopter", Email: "a@example.com", Name: "a"}))
	require.NoError(t, repos.Pet.Create(&model.Pet{Uuid: "pet-1", PublisherId: "publisher", Name: "旺财"}))

	app, err := svc.Application.Create(ctx, "adopter", request.CreateApplicationRequest{PetId: "pet-1"})
	require.NoError(t, err)
	_, err = svc.Application.Approve(ctx, app.Id, "publisher")
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	inbox, _, err := svc.Message.Inbox(ctx, "publisher", request.PageQuery{})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, constants.SYSTEM_SENDER_ID, inbox[0].SenderId)
	assert.Contains(t, inbox[0].Content, "旺财")

	inbox, _, err = svc.Message.Inbox(ctx, "adopter", request.PageQuery{})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Contains(t, inbox[0].Content, "已通过")
}

func TestNewServicesRejectsUnknownMode(t *testing.T) {
	conf := config.Default()
	conf.MessageMode = "carrier-pigeon"
	_, err := NewServices(Deps{Repos: memory.NewRepositories(memory.NewStore()), Cache: memory.NewCache(), Config: conf})
	assert.Error(t, err)
}
