package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/noteapi/internal/response"
	"github.com/weiwangfds/noteapi/internal/service/tag"
)

// TagHandler 标签处理器
type TagHandler struct {
	tagService tag.TagService
}

// NewTagHandler 创建标签处理器实例
func NewTagHandler(tagService tag.TagService) *TagHandler {
	return &TagHandler{
		tagService: tagService,
	}
}

// ListTags 获取全部标签名称
// @Summary 获取标签列表
// @Description 返回所有用户共享的标签名称，按名称升序
// @Tags 标签管理
// @Produce json
// @Success 200 {object} response.Response{data=[]string} "获取成功"
// @Failure 401 {object} response.Response "未授权"
// @Failure 500 {object} response.Response "服务器内部错误"
// @Router /api/v1/tags [get]
func (h *TagHandler) ListTags(c *gin.Context) {
	names, err := h.tagService.ListTagNames(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, names)
}
