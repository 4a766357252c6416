package middleware

import (
	"net/http"

	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/errorx"
	"pet_adoption_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// gin.Context 中保存登录信息的 key
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// JWTAuth JWT 认证中间件
// 依次从 Cookie、Authorization Header 读取 Token，验证后把用户信息存入上下文
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := jwt.Authenticate(c.Request)
		if payload == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  errorx.ErrUnauthorized.Msg,
			})
			return
		}
		setPrincipal(c, payload)
		c.Next()
	}
}

// OptionalAuth 有合法 Token 时写入用户信息，没有也放行
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if payload := jwt.Authenticate(c.Request); payload != nil {
			setPrincipal(c, payload)
		}
		c.Next()
	}
}

// RequireAdmin 必须挂在 JWTAuth 之后
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code": errorx.CodeForbidden,
				"msg":  errorx.ErrForbidden.Msg,
			})
			return
		}
		c.Next()
	}
}

func setPrincipal(c *gin.Context, payload *jwt.Payload) {
	c.Set(CtxUserID, payload.UserID)
	c.Set(CtxEmail, payload.Email)
	c.Set(CtxRole, payload.Role)
}
