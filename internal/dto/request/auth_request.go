package request

// RegisterRequest 用户注册请求
// 使用位置:
//   - internal/handler/auth_handler.go: Register
//   - internal/service/user/service.go: Register
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=64"`
	Name     string `json:"name" binding:"required,max=50"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
}

// LoginRequest 邮箱密码登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest 更新个人资料，字段为 nil 表示不修改
// 使用位置:
//   - internal/handler/auth_handler.go: UpdateProfile
type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=50"`
	Phone  *string `json:"phone" binding:"omitempty,phone"`
	Wechat *string `json:"wechat" binding:"omitempty,max=50"`
}
