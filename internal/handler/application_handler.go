// Package handler 提供 HTTP 请求处理器
// 本文件处理领养申请相关的 API 请求
package handler

import (
	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ApplicationHandler 领养申请处理器
type ApplicationHandler struct {
	appSvc service.ApplicationService
}

// NewApplicationHandler 创建领养申请处理器
func NewApplicationHandler(appSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

// List 我发出或收到的申请
// GET /api/applications?type=sent|received&status=&pet_id=&page=&limit=
func (h *ApplicationHandler) List(c *gin.Context) {
	var q request.ApplicationListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		HandleParamError(c, err)
		return
	}
	list, meta, err := h.appSvc.List(c.Request.Context(), currentUserId(c), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccessWithMeta(c, list, meta)
}

// Create 提交申请
// POST /api/applications
// 请求体: request.CreateApplicationRequest
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req request.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.appSvc.Create(c.Request.Context(), currentUserId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// Get GET /api/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	data, err := h.appSvc.Get(c.Request.Context(), c.Param("id"), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Approve 通过申请
// POST /api/applications/:id/approve
func (h *ApplicationHandler) Approve(c *gin.Context) {
	data, err := h.appSvc.Approve(c.Request.Context(), c.Param("id"), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Reject 拒绝申请
// POST /api/applications/:id/reject
func (h *ApplicationHandler) Reject(c *gin.Context) {
	data, err := h.appSvc.Reject(c.Request.Context(), c.Param("id"), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
