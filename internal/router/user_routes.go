package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户公开资料路由
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/:id", rt.handlers.User.GetPublicProfile)
}
