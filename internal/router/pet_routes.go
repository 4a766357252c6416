// Package router 提供 HTTP 路由注册
// 本文件定义宠物相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterPetRoutes 注册宠物浏览路由（无需认证）
func (rt *Router) RegisterPetRoutes(rg *gin.RouterGroup) {
	petGroup := rg.Group("/pets")
	{
		petGroup.GET("", rt.handlers.Pet.List)
		petGroup.GET("/:id", rt.handlers.Pet.Get)
		petGroup.GET("/:id/photos", rt.handlers.Pet.ListPhotos)
	}
}

// RegisterMyPetRoutes 注册宠物发布与管理路由（需要认证）
func (rt *Router) RegisterMyPetRoutes(rg *gin.RouterGroup) {
	petGroup := rg.Group("/pets")
	{
		// ===== 发布者操作 =====
		petGroup.POST("", rt.handlers.Pet.Create)
		petGroup.GET("/mine", rt.handlers.Pet.ListMine)
		petGroup.PUT("/:id", rt.handlers.Pet.Update)
		petGroup.DELETE("/:id", rt.handlers.Pet.Delete)

		// ===== 照片管理 =====
		petGroup.POST("/:id/photos", rt.handlers.Pet.AddPhotos)
		petGroup.DELETE("/:id/photos/:photoId", rt.handlers.Pet.DeletePhoto)
		petGroup.PUT("/:id/photos/:photoId/primary", rt.handlers.Pet.SetPrimaryPhoto)
	}
}
