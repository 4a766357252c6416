package respond

import (
	"time"

	"pet_adoption_server/internal/model"
)

// UserRespond 当前登录用户的完整资料
// 使用位置:
//   - internal/service/user/service.go: Me, UpdateProfile, ListUsers
type UserRespond struct {
	Id        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Wechat    string    `json:"wechat"`
	AvatarUrl string    `json:"avatar_url"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicUserRespond 对外展示的用户信息，不含邮箱和电话
type PublicUserRespond struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	AvatarUrl string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthRespond 注册 / 登录响应
type AuthRespond struct {
	User  UserRespond `json:"user"`
	Token string      `json:"token"`
}

// NewUserRespond 转换为 UserRespond
func NewUserRespond(u *model.UserInfo) UserRespond {
	return UserRespond{
		Id:        u.Uuid,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Wechat:    u.Wechat,
		AvatarUrl: u.AvatarUrl,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// NewPublicUserRespond 转换为 PublicUserRespond
func NewPublicUserRespond(u *model.UserInfo) PublicUserRespond {
	return PublicUserRespond{
		Id:        u.Uuid,
		Name:      u.Name,
		AvatarUrl: u.AvatarUrl,
		CreatedAt: u.CreatedAt,
	}
}
