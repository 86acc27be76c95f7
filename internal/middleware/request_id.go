package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID 请求ID请求头，上游已设置时沿用
	HeaderRequestID = "X-Request-ID"
	// ContextKeyRequestID 请求ID在gin上下文中的键
	ContextKeyRequestID = "request_id"
)

// RequestID 为每个请求分配ID并写回响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
