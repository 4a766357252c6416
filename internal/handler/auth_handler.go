// Package handler 提供 HTTP 请求处理器
// 本文件处理注册登录与个人资料相关的 API 请求
package handler

import (
	"net/http"

	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/service"
	"pet_adoption_server/pkg/errorx"
	"pet_adoption_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证请求处理器
type AuthHandler struct {
	userSvc service.UserService
	secure  bool // Cookie 是否只走 HTTPS
}

// NewAuthHandler 创建认证处理器，secureCookie 在开启 TLS 时为 true
func NewAuthHandler(userSvc service.UserService, secureCookie bool) *AuthHandler {
	return &AuthHandler{userSvc: userSvc, secure: secureCookie}
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(jwt.CookieName, token, maxAge, "/", "", h.secure, true)
}

// Register 用户注册
// POST /api/auth/register
// 请求体: request.RegisterRequest
// 响应: respond.AuthRespond，同时写入 token Cookie
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Register(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.setTokenCookie(c, data.Token, int(jwt.Expiry().Seconds()))
	HandleCreated(c, data)
}

// Login 邮箱密码登录
// POST /api/auth/login
// 请求体: request.LoginRequest
// 响应: respond.AuthRespond，同时写入 token Cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Login(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.setTokenCookie(c, data.Token, int(jwt.Expiry().Seconds()))
	HandleSuccess(c, data)
}

// Logout 清除 Cookie，Token 本身在过期前仍然有效
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setTokenCookie(c, "", -1)
	HandleSuccess(c, nil)
}

// Me 当前登录用户
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	data, err := h.userSvc.Me(c.Request.Context(), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateProfile 修改个人资料
// PUT /api/auth/profile
// 请求体: request.UpdateProfileRequest
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.UpdateProfile(c.Request.Context(), currentUserId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UploadAvatar 上传头像
// POST /api/auth/avatar
// multipart 字段: file
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "请选择要上传的头像"))
		return
	}
	data, err := h.userSvc.UploadAvatar(c.Request.Context(), currentUserId(c), fh)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
