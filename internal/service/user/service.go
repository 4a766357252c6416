// Package user 用户注册登录、个人资料与管理员用户管理
package user

import (
	"context"
	"mime/multipart"
	"strings"

	"pet_adoption_server/internal/dao/mysql/repository"
	myredis "pet_adoption_server/internal/dao/redis"
	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/dto/respond"
	"pet_adoption_server/internal/infrastructure/storage"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/constants"
	"pet_adoption_server/pkg/errorx"
	"pet_adoption_server/pkg/util/jwt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options 头像上传相关配置
type Options struct {
	AvatarDir      string // 对象存储中的头像目录
	MaxUploadBytes int64
}

// userService 用户业务逻辑实现
type userService struct {
	repos   *repository.Repositories
	cache   myredis.CacheService
	storage storage.Storage
	opts    Options
}

// NewUserService 构造函数，注入 Repository、缓存与对象存储
// 缓存用于在公开资料变更后失效内嵌发布者信息的宠物详情
func NewUserService(repos *repository.Repositories, cache myredis.CacheService, st storage.Storage, opts Options) *userService {
	if opts.AvatarDir == "" {
		opts.AvatarDir = "avatars"
	}
	return &userService{repos: repos, cache: cache, storage: st, opts: opts}
}

var (
	errBadCredentials = errorx.New(errorx.CodeUnauthorized, "邮箱或密码错误")
	errEmailTaken     = errorx.New(errorx.CodeConflict, "该邮箱已被注册")
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 注册，成功后直接签发 Token
func (s *userService) Register(ctx context.Context, req request.RegisterRequest) (*respond.AuthRespond, error) {
	email := normalizeEmail(req.Email)
	_, err := s.repos.User.FindByEmail(email)
	if err == nil {
		return nil, errEmailTaken
	}
	if !errorx.IsNotFound(err) {
		zap.L().Error("查询邮箱失败", zap.String("email", email), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	user := &model.UserInfo{
		Uuid:        uuid.NewString(),
		Email:       email,
		RawPassword: req.Password,
		Name:        strings.TrimSpace(req.Name),
		Phone:       req.Phone,
		Role:        model.RoleUser,
	}
	if err := s.repos.User.Create(user); err != nil {
		if errorx.HasCode(err, errorx.CodeConflict) {
			return nil, errEmailTaken
		}
		zap.L().Error("创建用户失败", zap.String("email", email), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	zap.L().Info("user registered", zap.String("user_id", user.Uuid))
	return s.issue(user)
}

// Login 邮箱密码登录，邮箱不存在与密码错误返回同一提示
func (s *userService) Login(ctx context.Context, req request.LoginRequest) (*respond.AuthRespond, error) {
	user, err := s.repos.User.FindByEmail(normalizeEmail(req.Email))
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errBadCredentials
		}
		zap.L().Error("登录查询用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.Password) {
		return nil, errBadCredentials
	}
	return s.issue(user)
}

func (s *userService) issue(user *model.UserInfo) (*respond.AuthRespond, error) {
	token, err := jwt.GenerateToken(jwt.Payload{UserID: user.Uuid, Email: user.Email, Role: user.Role})
	if err != nil {
		zap.L().Error("生成 Token 失败", zap.String("user_id", user.Uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.AuthRespond{User: respond.NewUserRespond(user), Token: token}, nil
}

func (s *userService) load(userId string) (*model.UserInfo, error) {
	user, err := s.repos.User.FindByUuid(userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "用户不存在")
		}
		zap.L().Error("查询用户失败", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return user, nil
}

// Me 当前登录用户
func (s *userService) Me(ctx context.Context, userId string) (*respond.UserRespond, error) {
	user, err := s.load(userId)
	if err != nil {
		return nil, err
	}
	rsp := respond.NewUserRespond(user)
	return &rsp, nil
}

// UpdateProfile 只修改请求中出现的字段
func (s *userService) UpdateProfile(ctx context.Context, userId string, req request.UpdateProfileRequest) (*respond.UserRespond, error) {
	user, err := s.load(userId)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Wechat != nil {
		user.Wechat = *req.Wechat
	}
	if err := s.repos.User.Update(user); err != nil {
		zap.L().Error("更新资料失败", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if req.Name != nil {
		s.invalidatePetDetails(ctx, userId)
	}
	rsp := respond.NewUserRespond(user)
	return &rsp, nil
}

// UploadAvatar 保存头像并替换 avatar_url，旧文件尽量删除
func (s *userService) UploadAvatar(ctx context.Context, userId string, fh *multipart.FileHeader) (*respond.UserRespond, error) {
	user, err := s.load(userId)
	if err != nil {
		return nil, err
	}
	url, err := storage.SaveImage(ctx, s.storage, fh, s.opts.AvatarDir, s.opts.MaxUploadBytes)
	if err != nil {
		if errorx.HasCode(err, errorx.CodeInvalidParam) {
			return nil, err
		}
		zap.L().Error("保存头像失败", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	old := user.AvatarUrl
	user.AvatarUrl = url
	if err := s.repos.User.Update(user); err != nil {
		zap.L().Error("更新头像失败", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	s.invalidatePetDetails(ctx, userId)
	if old != "" {
		if err := s.storage.Delete(ctx, old); err != nil {
			zap.L().Warn("删除旧头像失败", zap.String("url", old), zap.Error(err))
		}
	}
	rsp := respond.NewUserRespond(user)
	return &rsp, nil
}

// invalidatePetDetails 宠物详情缓存内嵌发布者的名字和头像，发布过宠物的用户改资料后清掉全部详情缓存
func (s *userService) invalidatePetDetails(ctx context.Context, userId string) {
	_, total, err := s.repos.Pet.List(repository.PetFilter{PublisherId: userId, Limit: 1})
	if err == nil && total == 0 {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, constants.PET_DETAIL_KEY_PREFIX+"*"); err != nil {
		zap.L().Warn("删除宠物详情缓存失败", zap.String("publisher_id", userId), zap.Error(err))
	}
}

// GetPublicProfile 公开资料，不含邮箱和电话
func (s *userService) GetPublicProfile(ctx context.Context, userId string) (*respond.PublicUserRespond, error) {
	user, err := s.load(userId)
	if err != nil {
		return nil, err
	}
	rsp := respond.NewPublicUserRespond(user)
	return &rsp, nil
}

// ListUsers 管理员分页查询用户
func (s *userService) ListUsers(ctx context.Context, q request.UserListQuery) ([]respond.UserRespond, *respond.PageMeta, error) {
	page, limit, offset := q.Normalize()
	users, total, err := s.repos.User.List(strings.TrimSpace(q.Keyword), offset, limit)
	if err != nil {
		zap.L().Error("查询用户列表失败", zap.Error(err))
		return nil, nil, errorx.ErrServerBusy
	}
	list := make([]respond.UserRespond, 0, len(users))
	for i := range users {
		list = append(list, respond.NewUserRespond(&users[i]))
	}
	return list, &respond.PageMeta{Total: total, Page: page, Limit: limit}, nil
}

// SetRole 管理员修改用户角色，新角色在用户下次登录签发 Token 后生效
func (s *userService) SetRole(ctx context.Context, userId, role string) error {
	if _, err := s.load(userId); err != nil {
		return err
	}
	if err := s.repos.User.UpdateRole(userId, role); err != nil {
		zap.L().Error("修改角色失败", zap.String("user_id", userId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	zap.L().Info("user role changed", zap.String("user_id", userId), zap.String("role", role))
	return nil
}
