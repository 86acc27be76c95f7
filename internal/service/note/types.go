package note

import (
	"time"

	"github.com/weiwangfds/noteapi/internal/database"
)

const (
	// DefaultPageSize 未指定size参数时的每页数量
	DefaultPageSize = 10
	// MaxPageSize 每页数量上限，更大的值会被截断
	MaxPageSize = 100
)

// CreateNoteRequest 创建笔记请求
type CreateNoteRequest struct {
	Title   string   `json:"title" binding:"required,max=255"` // 笔记标题
	Content string   `json:"content" binding:"required"`       // 笔记内容
	Tags    []string `json:"tags" binding:"required"`          // 原始标签名，规范化后再校验长度
}

// UpdateNoteRequest 更新笔记请求
// 更新是整体替换：标题、内容和标签集合都会被请求中的值覆盖
type UpdateNoteRequest struct {
	Title   string   `json:"title" binding:"required,max=255"` // 笔记标题
	Content string   `json:"content" binding:"required"`       // 笔记内容
	Tags    []string `json:"tags" binding:"required"`          // 新的完整标签集合，空数组表示清空
}

// NoteDetail 单条笔记的完整视图
type NoteDetail struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"` // 按名称升序
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteSummary 列表中的笔记摘要，不含正文
type NoteSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListQuery 列表查询条件，各条件之间是AND关系
type ListQuery struct {
	Page     int      // 页码，从1开始
	PageSize int      // 每页数量
	Search   string   // 标题或内容的子串，不区分大小写
	Tags     []string // 笔记必须同时拥有的标签
}

// NoteList 分页结果
type NoteList struct {
	Notes      []NoteSummary `json:"notes"`
	TotalCount int64         `json:"total_count"` // 分页前的匹配总数
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}

func toDetail(n *database.Note) *NoteDetail {
	return &NoteDetail{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      n.TagNames(),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func toSummary(n *database.Note) NoteSummary {
	return NoteSummary{
		ID:        n.ID,
		Title:     n.Title,
		Tags:      n.TagNames(),
		UpdatedAt: n.UpdatedAt,
	}
}
