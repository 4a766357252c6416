package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// TlsHandler 把 HTTP 请求重定向到 HTTPS，mainConfig.tls = true 时启用
func TlsHandler(host string, port int) gin.HandlerFunc {
	secureMiddleware := secure.New(secure.Options{
		SSLRedirect: true,
		SSLHost:     host + ":" + strconv.Itoa(port),
	})
	return process(secureMiddleware, "TLS redirection failed")
}

// SecureHeaders 设置常用安全响应头
func SecureHeaders(isDevelopment bool) gin.HandlerFunc {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      isDevelopment,
	})
	return process(secureMiddleware, "secure headers failed")
}

func process(secureMiddleware *secure.Secure, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 出错时只记录并终止当前请求，不能让服务退出
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			zap.L().Error(msg, zap.Error(err))
			c.Abort()
			return
		}
		// 重定向时 secure 已经写好响应
		if status := c.Writer.Status(); status >= 300 && status < 400 {
			c.Abort()
			return
		}
		c.Next()
	}
}
