// Package handler 提供 HTTP 请求处理器
// 本文件处理宠物及照片相关的 API 请求
package handler

import (
	"mime/multipart"

	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/service"
	"pet_adoption_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// PetHandler 宠物请求处理器
type PetHandler struct {
	petSvc service.PetService
}

// NewPetHandler 创建宠物处理器
func NewPetHandler(petSvc service.PetService) *PetHandler {
	return &PetHandler{petSvc: petSvc}
}

// photoFiles multipart 请求中 photos 字段的全部文件
func photoFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["photos"]
}

// List 宠物列表
// GET /api/pets?keyword=&breed=&age=&gender=&location=&status=&publisher_id=&sort=&page=&limit=
func (h *PetHandler) List(c *gin.Context) {
	var q request.PetListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		HandleParamError(c, err)
		return
	}
	list, meta, err := h.petSvc.List(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccessWithMeta(c, list, meta)
}

// ListMine 我发布的宠物
// GET /api/pets/mine
func (h *PetHandler) ListMine(c *gin.Context) {
	var q request.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		HandleParamError(c, err)
		return
	}
	list, meta, err := h.petSvc.ListMine(c.Request.Context(), currentUserId(c), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccessWithMeta(c, list, meta)
}

// Get 宠物详情
// GET /api/pets/:id
func (h *PetHandler) Get(c *gin.Context) {
	data, err := h.petSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Create 发布宠物
// POST /api/pets
// 请求体: JSON 的 request.CreatePetRequest，或 multipart 表单（照片放在 photos 字段）
func (h *PetHandler) Create(c *gin.Context) {
	var req request.CreatePetRequest
	var photos []*multipart.FileHeader
	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
			HandleParamError(c, err)
			return
		}
		photos = photoFiles(c)
	} else if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	data, err := h.petSvc.Create(c.Request.Context(), currentUserId(c), req, photos)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// Update 编辑宠物
// PUT /api/pets/:id
// 请求体: request.UpdatePetRequest
func (h *PetHandler) Update(c *gin.Context) {
	var req request.UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, isAdmin := currentUser(c)
	data, err := h.petSvc.Update(c.Request.Context(), c.Param("id"), userId, isAdmin, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Delete 删除宠物
// DELETE /api/pets/:id
func (h *PetHandler) Delete(c *gin.Context) {
	userId, isAdmin := currentUser(c)
	if err := h.petSvc.Delete(c.Request.Context(), c.Param("id"), userId, isAdmin); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ListPhotos GET /api/pets/:id/photos
func (h *PetHandler) ListPhotos(c *gin.Context) {
	data, err := h.petSvc.ListPhotos(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// AddPhotos 追加照片
// POST /api/pets/:id/photos
// multipart 字段: photos（可多个）
func (h *PetHandler) AddPhotos(c *gin.Context) {
	files := photoFiles(c)
	if len(files) == 0 {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "请选择要上传的照片"))
		return
	}
	userId, isAdmin := currentUser(c)
	data, err := h.petSvc.AddPhotos(c.Request.Context(), c.Param("id"), userId, isAdmin, files)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// DeletePhoto DELETE /api/pets/:id/photos/:photoId
func (h *PetHandler) DeletePhoto(c *gin.Context) {
	userId, isAdmin := currentUser(c)
	if err := h.petSvc.DeletePhoto(c.Request.Context(), c.Param("id"), c.Param("photoId"), userId, isAdmin); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// SetPrimaryPhoto PUT /api/pets/:id/photos/:photoId/primary
func (h *PetHandler) SetPrimaryPhoto(c *gin.Context) {
	userId, isAdmin := currentUser(c)
	if err := h.petSvc.SetPrimaryPhoto(c.Request.Context(), c.Param("id"), c.Param("photoId"), userId, isAdmin); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
