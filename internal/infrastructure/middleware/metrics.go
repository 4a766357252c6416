package middleware

import (
	"pet_adoption_server/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics 记录请求数、耗时与并发数，path 使用路由模板避免高基数
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		done := metrics.RequestStarted()
		c.Next()
		done(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}
