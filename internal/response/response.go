// Package response 统一HTTP响应格式，并把应用错误映射为状态码
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/weiwangfds/noteapi/internal/errors"
	"github.com/weiwangfds/noteapi/internal/i18n"
)

// Response 统一返回值结构体
type Response struct {
	// 业务码，0表示成功，非0为internal/errors中的错误码
	Code int `json:"code"`
	// 响应消息，错误时按Accept-Language本地化
	Message string `json:"message"`
	// 响应数据
	Data interface{} `json:"data,omitempty"`
	// 校验失败的字段及原因
	Fields map[string]string `json:"fields,omitempty"`
	// 请求ID，用于链路追踪
	RequestID string `json:"request_id,omitempty"`
	// Unix时间戳（秒）
	Timestamp int64 `json:"timestamp"`
}

// now 当前时间，测试中可替换
var now = time.Now

// Success 200成功响应
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, apperrors.ErrSuccess, "success", data, nil)
}

// Created 201创建成功响应
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, apperrors.ErrSuccess, "created", data, nil)
}

// NoContent 204响应，没有响应体
func NoContent(c *gin.Context) {
	c.AbortWithStatus(http.StatusNoContent)
}

// Unauthorized 401错误响应
func Unauthorized(c *gin.Context) {
	Error(c, apperrors.New(apperrors.ErrUnauthorized, "unauthorized"))
}

// Error 根据错误分类写出错误响应
// 非AppError视为内部错误；内部错误只返回本地化消息，不暴露底层细节
func Error(c *gin.Context, err error) {
	appErr, ok := apperrors.GetAppError(err)
	if !ok {
		appErr = apperrors.Wrap(apperrors.ErrInternalServer, "internal server error", err)
	}

	kind := appErr.Kind()
	message := appErr.LocalizedMessage(Language(c))

	var fields map[string]string
	if kind == apperrors.KindValidation {
		fields = appErr.Fields
		if appErr.Details != "" && len(fields) == 0 {
			message = message + ": " + appErr.Details
		}
	}

	if kind == apperrors.KindInternal {
		_ = c.Error(err)
	}
	c.Abort()
	write(c, StatusOf(kind), appErr.Code, message, nil, fields)
}

// StatusOf 错误分类到HTTP状态码的映射
func StatusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Language 返回请求希望使用的语言
func Language(c *gin.Context) string {
	return i18n.GetInstance().MatchLanguage(c.GetHeader("Accept-Language"))
}

func write(c *gin.Context, status int, code apperrors.ErrorCode, message string, data interface{}, fields map[string]string) {
	c.JSON(status, Response{
		Code:      int(code),
		Message:   message,
		Data:      data,
		Fields:    fields,
		RequestID: getRequestID(c),
		Timestamp: now().Unix(),
	})
}

// getRequestID 从gin上下文中获取请求ID
func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}
