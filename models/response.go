// Package models 诊断 API 的响应信封。
package models

import "time"

// Response 统一响应格式：code 与 HTTP 状态码一致，成功时为 200
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewResponse 创建响应
func NewResponse(code int, message string, data interface{}) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// SuccessResponse 成功响应
func SuccessResponse(data interface{}) *Response {
	return NewResponse(200, "success", data)
}

// ErrorResponse 错误响应
func ErrorResponse(code int, message string) *Response {
	return NewResponse(code, message, nil)
}

// ErrorFrom 用 err 的文本构造错误响应
func ErrorFrom(code int, err error) *Response {
	if err == nil {
		return ErrorResponse(code, "unknown error")
	}
	return ErrorResponse(code, err.Error())
}
