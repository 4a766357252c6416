// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"context"
	"mime/multipart"

	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/dto/respond"
)

// UserService 用户业务接口
// 处理注册、登录、个人资料以及管理员用户管理
type UserService interface {
	// Register 邮箱注册，成功后返回用户信息和 Token
	Register(ctx context.Context, req request.RegisterRequest) (*respond.AuthRespond, error)
	// Login 邮箱密码登录
	Login(ctx context.Context, req request.LoginRequest) (*respond.AuthRespond, error)
	// Me 当前登录用户的完整资料
	Me(ctx context.Context, userId string) (*respond.UserRespond, error)
	// UpdateProfile 修改昵称、电话、微信
	UpdateProfile(ctx context.Context, userId string, req request.UpdateProfileRequest) (*respond.UserRespond, error)
	// UploadAvatar 上传头像
	UploadAvatar(ctx context.Context, userId string, fh *multipart.FileHeader) (*respond.UserRespond, error)
	// GetPublicProfile 他人可见的公开资料
	GetPublicProfile(ctx context.Context, userId string) (*respond.PublicUserRespond, error)
	// ListUsers 管理员分页查询用户
	ListUsers(ctx context.Context, q request.UserListQuery) ([]respond.UserRespond, *respond.PageMeta, error)
	// SetRole 管理员修改用户角色
	SetRole(ctx context.Context, userId, role string) error
}

// PetService 宠物业务接口
// isAdmin 为 true 时可以修改任意宠物
type PetService interface {
	List(ctx context.Context, q request.PetListQuery) ([]respond.PetRespond, *respond.PageMeta, error)
	ListMine(ctx context.Context, publisherId string, q request.PageQuery) ([]respond.PetRespond, *respond.PageMeta, error)
	// Get 详情（带缓存），每次调用累加浏览量
	Get(ctx context.Context, petId string) (*respond.PetDetailRespond, error)
	Create(ctx context.Context, publisherId string, req request.CreatePetRequest, photos []*multipart.FileHeader) (*respond.PetDetailRespond, error)
	Update(ctx context.Context, petId, actorId string, isAdmin bool, req request.UpdatePetRequest) (*respond.PetRespond, error)
	Delete(ctx context.Context, petId, actorId string, isAdmin bool) error
	IncrementViewCount(ctx context.Context, petId string) error

	ListPhotos(ctx context.Context, petId string) ([]respond.PhotoRespond, error)
	AddPhotos(ctx context.Context, petId, actorId string, isAdmin bool, files []*multipart.FileHeader) ([]respond.PhotoRespond, error)
	DeletePhoto(ctx context.Context, petId, photoId, actorId string, isAdmin bool) error
	SetPrimaryPhoto(ctx context.Context, petId, photoId, actorId string, isAdmin bool) error
}

// ApplicationService 领养申请业务接口
type ApplicationService interface {
	// Create 提交申请
	Create(ctx context.Context, applicantId string, req request.CreateApplicationRequest) (*respond.ApplicationRespond, error)
	// Approve 发布者通过申请，宠物变为 adopted，其余待处理申请自动拒绝
	Approve(ctx context.Context, applicationId, actorId string) (*respond.ApplicationRespond, error)
	// Reject 发布者拒绝申请
	Reject(ctx context.Context, applicationId, actorId string) (*respond.ApplicationRespond, error)
	// Get 申请人或发布者查看申请详情
	Get(ctx context.Context, applicationId, viewerId string) (*respond.ApplicationRespond, error)
	// List 我发出的或收到的申请
	List(ctx context.Context, userId string, q request.ApplicationListQuery) ([]respond.ApplicationRespond, *respond.PageMeta, error)
}

// MessageService 私信业务接口
type MessageService interface {
	Send(ctx context.Context, senderId string, req request.SendMessageRequest) (*respond.MessageRespond, error)
	Conversation(ctx context.Context, userId, otherId string, q request.PageQuery) ([]respond.MessageRespond, *respond.PageMeta, error)
	Inbox(ctx context.Context, userId string, q request.PageQuery) ([]respond.MessageRespond, *respond.PageMeta, error)
	Conversations(ctx context.Context, userId string) ([]respond.ConversationRespond, error)
	MarkRead(ctx context.Context, messageId, userId string) error
	UnreadCount(ctx context.Context, userId string) (*respond.UnreadCountRespond, error)
	// CreateNotification 系统通知，发送者为 system
	CreateNotification(ctx context.Context, receiverId, content, petId string) error
}
