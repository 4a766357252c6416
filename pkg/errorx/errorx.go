package errorx

import (
	"errors"
	"fmt"
)

// CodeError 带业务错误码的自定义错误
// 实现了 error 接口，支持 %w 包装底层错误，且能被 errors.Is/errors.As 识别
// Code 与 HTTP 状态码保持一致，Handler 层直接用它作为响应状态
type CodeError struct {
	Code  int    // 业务错误码（同 HTTP 状态码）
	Msg   string // 错误消息
	cause error  // 被包装的底层错误
}

// Error 当存在底层错误时，返回格式为 "消息: 底层错误"；否则仅返回消息
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap 实现 errors.Unwrap 接口，支持 errors.Is/errors.As 向下追溯
func (e *CodeError) Unwrap() error {
	return e.cause
}

// Is 同码即视为同一类错误，便于 errors.Is(err, errorx.ErrForbidden)
func (e *CodeError) Is(target error) bool {
	var t *CodeError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && (t.Msg == "" || t.Msg == e.Msg)
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误，添加业务错误码和消息
// 用法: errorx.Wrap(err, CodeNotFound, "宠物不存在")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf 包装底层错误，支持格式化消息
// 用法: errorx.Wrapf(err, CodeNotFound, "宠物 %s 不存在", petId)
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode 从错误中提取业务错误码，如果不是 CodeError 则返回默认码
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// 状态码常量定义，与 HTTP 状态码一一对应
const (
	CodeSuccess         = 200 // 成功
	CodeCreated         = 201 // 创建成功
	CodeInvalidParam    = 400 // 请求参数错误
	CodeUnauthorized    = 401 // 未登录/Token 无效
	CodeForbidden       = 403 // 无权操作
	CodeNotFound        = 404 // 资源不存在
	CodeConflict        = 409 // 状态冲突
	CodeTooManyRequests = 429 // 请求过于频繁
	CodeServerBusy      = 500 // 服务繁忙
	CodeDBError         = 500 // 数据库错误
	CodeCacheError      = 500 // 缓存错误
)

// 预定义常用错误实例
var (
	ErrInvalidParam    = New(CodeInvalidParam, "请求参数错误")
	ErrUnauthorized    = New(CodeUnauthorized, "请先登录")
	ErrForbidden       = New(CodeForbidden, "无权执行该操作")
	ErrTooManyRequests = New(CodeTooManyRequests, "请求过于频繁，请稍后再试")
	ErrServerBusy      = New(CodeServerBusy, "服务繁忙")
)

// IsNotFound 检查错误是否为"未找到"类型（包括 gorm.ErrRecordNotFound）
func IsNotFound(err error) bool {
	if HasCode(err, CodeNotFound) {
		return true
	}
	return err != nil && err.Error() == "record not found"
}

// HasCode 错误链上是否存在指定码的 CodeError
func HasCode(err error, code int) bool {
	var codeErr *CodeError
	return errors.As(err, &codeErr) && codeErr.Code == code
}
