package logger

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"pet_adoption_server/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init 初始化全局 Logger
// dev 模式同时输出到控制台（Console 格式）和文件（JSON 格式），release 模式只写文件
func Init(cfg *config.LogConfig, mode string) (err error) {
	if cfg == nil {
		return fmt.Errorf("logger.Init received nil config")
	}

	if cfg.FileName == "" {
		cfg.FileName = filepath.Join(cfg.LogPath, "app.log")
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = 100
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 30
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}

	var level zapcore.Level
	if err = level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return
	}

	fileCore := zapcore.NewCore(getEncoder(), getLogWriter(cfg), level)
	core := fileCore
	if mode == "dev" || mode == gin.DebugMode {
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		consoleCore := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zapcore.DebugLevel)
		core = zapcore.NewTee(fileCore, consoleCore)
	}

	lg := zap.New(core, zap.AddCaller())
	zap.ReplaceGlobals(lg)
	return
}

// getLogWriter 使用 lumberjack 做日志切割
func getLogWriter(cfg *config.LogConfig) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FileName,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
	})
}

func getEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

// GinLogger 用 zap 记录每个请求
// 4xx 记为 Warn，5xx 记为 Error，方便按级别检索异常请求
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("user_id", c.GetString("user_id")),
			zap.Duration("cost", time.Since(start)),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, zap.String("errors", errs))
		}

		switch {
		case status >= http.StatusInternalServerError:
			zap.L().Error("http request", fields...)
		case status >= http.StatusBadRequest:
			zap.L().Warn("http request", fields...)
		default:
			zap.L().Info("http request", fields...)
		}
	}
}

// GinRecovery 捕获 panic，记录请求与堆栈后返回统一的 500 响应
func GinRecovery(stack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			var brokenPipe bool
			if err, ok := rec.(error); ok {
				brokenPipe = isBrokenPipeError(err)
			}

			httpRequest, _ := httputil.DumpRequest(c.Request, false)
			fields := []zap.Field{
				zap.Any("error", rec),
				zap.String("request", string(httpRequest)),
			}

			// 客户端已断开，无需再写响应
			if brokenPipe {
				zap.L().Error("broken pipe", append(fields, zap.String("path", c.Request.URL.Path))...)
				_ = c.Error(rec.(error))
				c.Abort()
				return
			}

			if stack {
				fields = append(fields, zap.String("stack", string(debug.Stack())))
			}
			zap.L().Error("[Recovery from panic]", fields...)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code": http.StatusInternalServerError,
				"msg":  "服务繁忙",
			})
		}()
		c.Next()
	}
}

// isBrokenPipeError 检查错误链中是否包含 broken pipe / connection reset
func isBrokenPipeError(err error) bool {
	if err == nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		var syscallErr *os.SyscallError
		if errors.As(opErr.Err, &syscallErr) {
			return hasBrokenPipeText(syscallErr.Error())
		}
	}
	return hasBrokenPipeText(err.Error())
}

func hasBrokenPipeText(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
