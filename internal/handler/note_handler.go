// Package handler 提供笔记和标签的HTTP处理器
// 处理器只负责参数绑定和结果映射，调用者身份由middleware.Identity提供
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/weiwangfds/noteapi/internal/errors"
	"github.com/weiwangfds/noteapi/internal/middleware"
	"github.com/weiwangfds/noteapi/internal/response"
	"github.com/weiwangfds/noteapi/internal/service/note"
	"github.com/weiwangfds/noteapi/internal/service/tag"
)

// NoteHandler 笔记处理器
type NoteHandler struct {
	noteService note.NoteService
}

// NewNoteHandler 创建笔记处理器实例
// 参数:
//
//	noteService - 笔记服务接口
//
// 返回:
//
//	*NoteHandler - 笔记处理器实例
func NewNoteHandler(noteService note.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

// CreateNote 创建笔记
// @Summary 创建新笔记
// @Description 创建笔记，标签名会被去空白、转小写并去重
// @Tags 笔记管理
// @Accept json
// @Produce json
// @Param note body note.CreateNoteRequest true "创建笔记请求"
// @Success 201 {object} response.Response{data=note.NoteDetail} "创建成功"
// @Failure 400 {object} response.Response "请求参数错误"
// @Failure 401 {object} response.Response "未授权"
// @Failure 500 {object} response.Response "服务器内部错误"
// @Router /api/v1/notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var req note.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	created, err := h.noteService.CreateNote(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// GetNote 获取笔记详情
// @Summary 获取笔记详情
// @Description 不存在、已删除和属于他人的笔记都返回404
// @Tags 笔记管理
// @Produce json
// @Param id path int true "笔记ID"
// @Success 200 {object} response.Response{data=note.NoteDetail} "获取成功"
// @Failure 404 {object} response.Response "笔记不存在"
// @Router /api/v1/notes/{id} [get]
func (h *NoteHandler) GetNote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}

	detail, err := h.noteService.GetNoteByID(c.Request.Context(), noteID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail)
}

// UpdateNote 更新笔记
// @Summary 更新笔记
// @Description 整体替换标题、内容和标签集合
// @Tags 笔记管理
// @Accept json
// @Produce json
// @Param id path int true "笔记ID"
// @Param note body note.UpdateNoteRequest true "更新笔记请求"
// @Success 200 {object} response.Response{data=note.NoteDetail} "更新成功"
// @Failure 400 {object} response.Response "请求参数错误"
// @Failure 404 {object} response.Response "笔记不存在"
// @Router /api/v1/notes/{id} [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}

	var req note.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	updated, err := h.noteService.UpdateNote(c.Request.Context(), noteID, userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, updated)
}

// DeleteNote 删除笔记
// @Summary 软删除笔记
// @Tags 笔记管理
// @Param id path int true "笔记ID"
// @Success 204 "删除成功"
// @Failure 404 {object} response.Response "笔记不存在"
// @Router /api/v1/notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}

	if err := h.noteService.DeleteNote(c.Request.Context(), noteID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListNotes 分页查询笔记
// @Summary 笔记列表
// @Description 按更新时间倒序分页，search匹配标题或内容，tags为逗号分隔且必须全部命中
// @Tags 笔记管理
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量，最大100" default(10)
// @Param search query string false "搜索词"
// @Param tags query string false "标签过滤，如 work,urgent"
// @Success 200 {object} response.Response{data=note.NoteList} "获取成功"
// @Failure 400 {object} response.Response "分页参数错误"
// @Router /api/v1/notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	page, err := intQuery(c, "page", 1)
	if err != nil {
		response.Error(c, err)
		return
	}
	size, err := intQuery(c, "size", note.DefaultPageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	list, err := h.noteService.ListNotes(c.Request.Context(), userID, note.ListQuery{
		Page:     page,
		PageSize: size,
		Search:   c.Query("search"),
		Tags:     tag.ParseTagFilter(c.Query("tags")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// noteIDParam 解析路径中的笔记ID；非正整数的ID不可能对应任何笔记，直接返回404
func noteIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		response.Error(c, apperrors.New(apperrors.ErrNoteNotFound, "note not found").
			WithDetails("id "+c.Param("id")))
		return 0, false
	}
	return uint(id), true
}

// intQuery 读取整数查询参数，缺省时返回def
func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrInvalidPagination, "invalid pagination").
			WithDetails(key + " must be an integer")
	}
	return v, nil
}
