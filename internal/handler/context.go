package handler

import (
	"pet_adoption_server/internal/infrastructure/middleware"
	"pet_adoption_server/internal/model"

	"github.com/gin-gonic/gin"
)

// currentUserId JWTAuth 写入的用户 UUID，未登录时为空串
func currentUserId(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

// currentUser 用户 UUID 与是否管理员
func currentUser(c *gin.Context) (string, bool) {
	return c.GetString(middleware.CtxUserID), c.GetString(middleware.CtxRole) == model.RoleAdmin
}
