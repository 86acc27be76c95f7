// Package tag 提供标签相关的业务逻辑
// 包含标签名称规范化、查找或创建解析，以及全局标签列表
// 标签全局共享，本服务从不修改或删除已有标签
package tag

import (
	"context"

	"github.com/weiwangfds/noteapi/internal/database"
	apperrors "github.com/weiwangfds/noteapi/internal/errors"
	"github.com/weiwangfds/noteapi/internal/logger"
	"gorm.io/gorm"
)

// TagService 标签服务接口
type TagService interface {
	// ListTagNames 获取所有标签名称，按名称升序
	// 参数:
	//   ctx - 请求上下文
	// 返回:
	//   []string - 标签名称列表，可能包含没有任何关联笔记的标签
	//   error - 错误信息
	ListTagNames(ctx context.Context) ([]string, error)
}

// tagService 标签服务实现
type tagService struct {
	db *gorm.DB
}

// NewTagService 创建标签服务实例
func NewTagService(db *gorm.DB) TagService {
	return &tagService{db: db}
}

// ListTagNames 获取所有标签名称
func (s *tagService) ListTagNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	if err := s.db.WithContext(ctx).Model(&database.Tag{}).Order("name ASC").Pluck("name", &names).Error; err != nil {
		logger.Errorf("Failed to list tags: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, "failed to list tags", err)
	}
	return names, nil
}
