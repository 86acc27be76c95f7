package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/noteapi/internal/response"
)

// ContextKeyUserID 调用者ID在gin上下文中的键
const ContextKeyUserID = "user_id"

// Identity 从header读取上游网关校验过的用户ID
// 缺失、非数字或不为正的ID直接返回401，后续处理器不会执行
func Identity(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(header))
		id, err := strconv.ParseUint(raw, 10, 0)
		if err != nil || id == 0 {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, uint(id))
		c.Next()
	}
}

// UserID 返回Identity中间件设置的调用者ID
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id > 0
}
