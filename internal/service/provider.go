// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"time"

	"pet_adoption_server/internal/config"
	"pet_adoption_server/internal/dao/mysql/repository"
	myredis "pet_adoption_server/internal/dao/redis"
	"pet_adoption_server/internal/gateway/websocket"
	"pet_adoption_server/internal/infrastructure/mq"
	"pet_adoption_server/internal/infrastructure/storage"
	"pet_adoption_server/internal/service/application"
	"pet_adoption_server/internal/service/message"
	"pet_adoption_server/internal/service/pet"
	"pet_adoption_server/internal/service/user"
)

// Deps Service 层的外部依赖
type Deps struct {
	Repos   *repository.Repositories
	Cache   myredis.AsyncCacheService
	Storage storage.Storage
	Pusher  websocket.Pusher
	Config  *config.Config
}

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此结构访问各个 Service
type Services struct {
	User        UserService
	Pet         PetService
	Application ApplicationService
	Message     MessageService

	// Events 申请事件发布器，退出时由 Close 关闭
	Events mq.Publisher
}

// NewServices 创建并注入所有 Service 实例
// 依赖注入流程：
//  1. 创建私信 Service，它同时是申请事件的通知落点
//  2. 按 kafkaConfig.messageMode 创建事件发布器，消费端写系统通知
//  3. 创建其余 Service，申请 Service 注入发布器
func NewServices(deps Deps) (*Services, error) {
	conf := deps.Config
	maxUpload := int64(conf.MaxSizeMB) << 20

	messageSvc := message.NewMessageService(deps.Repos, deps.Pusher)
	events, err := mq.New(&conf.KafkaConfig, mq.NewNotificationHandler(messageSvc))
	if err != nil {
		return nil, err
	}

	return &Services{
		User: user.NewUserService(deps.Repos, deps.Cache, deps.Storage, user.Options{
			AvatarDir:      conf.StaticAvatarPath,
			MaxUploadBytes: maxUpload,
		}),
		Pet: pet.NewPetService(deps.Repos, deps.Cache, deps.Storage, pet.Options{
			PhotoDir:       conf.StaticPhotoPath,
			MaxUploadBytes: maxUpload,
			DetailTTL:      time.Duration(conf.PetDetailTTL) * time.Second,
		}),
		Application: application.NewApplicationService(deps.Repos, deps.Cache, events),
		Message:     messageSvc,
		Events:      events,
	}, nil
}

// Close 停止事件消费，等待已发布的事件处理完
func (s *Services) Close() error {
	if s.Events == nil {
		return nil
	}
	return s.Events.Close()
}
