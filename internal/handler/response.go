package handler

import (
	"errors"
	"net/http"

	"pet_adoption_server/internal/dto/respond"
	"pet_adoption_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ResponseData 统一响应结构
// code 与 HTTP 状态码一致
type ResponseData struct {
	Code int               `json:"code"`           // 业务响应状态码
	Msg  any               `json:"msg"`            // 提示信息，参数校验失败时为字段 -> 提示
	Data any               `json:"data,omitempty"` // 数据
	Meta *respond.PageMeta `json:"meta,omitempty"` // 分页信息
}

func write(c *gin.Context, code int, msg any, data any, meta *respond.PageMeta) {
	c.JSON(code, ResponseData{Code: code, Msg: msg, Data: data, Meta: meta})
}

// HandleSuccess 返回成功响应
func HandleSuccess(c *gin.Context, data any) {
	write(c, errorx.CodeSuccess, "success", data, nil)
}

// HandleCreated 资源创建成功
func HandleCreated(c *gin.Context, data any) {
	write(c, errorx.CodeCreated, "success", data, nil)
}

// HandleSuccessWithMeta 分页列表
func HandleSuccessWithMeta(c *gin.Context, data any, meta *respond.PageMeta) {
	write(c, errorx.CodeSuccess, "success", data, meta)
}

// HandleError 通用错误处理方法
// 自动识别 errorx.CodeError 类型的业务错误，或者将系统错误转换为 CodeServerBusy
// 使用示例：
//
//	if err := svc.DoSomething(); err != nil {
//	    HandleError(c, err)
//	    return
//	}
func HandleError(c *gin.Context, err error) {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		if codeErr.Code >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		write(c, codeErr.Code, codeErr.Msg, nil, nil)
		return
	}

	// 系统错误或未知错误：记录日志并返回服务繁忙
	zap.L().Error("system error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	write(c, errorx.ErrServerBusy.Code, errorx.ErrServerBusy.Msg, nil, nil)
}

// HandleParamError 处理参数绑定错误（带 validator 翻译支持）
func HandleParamError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && Trans != nil {
		write(c, errorx.CodeInvalidParam, RemoveTopStruct(validationErrs.Translate(Trans)), nil, nil)
		return
	}

	// 非 validator 错误（如 JSON 格式错误）
	zap.L().Debug("param bind error", zap.Error(err))
	write(c, errorx.ErrInvalidParam.Code, errorx.ErrInvalidParam.Msg, nil, nil)
}
