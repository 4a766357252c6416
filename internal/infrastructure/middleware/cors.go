package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Cors 跨域配置
// Cookie 认证需要 AllowCredentials，此时不能使用通配 *，改为回显请求来源
func Cors(allowOrigins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(allowOrigins) > 0 {
		corsConfig.AllowOrigins = allowOrigins
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	return cors.New(corsConfig)
}
