// Package handler 提供 HTTP 请求处理器
// 本文件处理用户公开资料与管理员用户管理
package handler

import (
	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户请求处理器
// 通过构造函数注入 UserService
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建用户处理器实例
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetPublicProfile 公开资料
// GET /api/users/:id
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	data, err := h.userSvc.GetPublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListUsers 管理员分页查询用户
// GET /api/admin/users?keyword=&page=&limit=
func (h *UserHandler) ListUsers(c *gin.Context) {
	var q request.UserListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		HandleParamError(c, err)
		return
	}
	list, meta, err := h.userSvc.ListUsers(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccessWithMeta(c, list, meta)
}

// SetRole 管理员修改用户角色
// PUT /api/admin/users/:id/role
// 请求体: request.SetRoleRequest
func (h *UserHandler) SetRole(c *gin.Context) {
	var req request.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.userSvc.SetRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
