package tag

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/weiwangfds/noteapi/internal/database"
	apperrors "github.com/weiwangfds/noteapi/internal/errors"
	"github.com/weiwangfds/noteapi/internal/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Resolver 把规范标签名解析为标签ID，缺失的标签会被创建
type Resolver interface {
	// Resolve 返回 规范名称 -> 标签ID 的完整映射
	// 参数:
	//   tx - 数据库句柄，通常是调用方的事务
	//   names - 已规范化并去重的标签名称
	Resolve(tx *gorm.DB, names []string) (map[string]uint, error)
}

// TagResolver 基于tags表唯一约束的查找或创建实现
// 并发调用方同时创建同名标签时，插入冲突在这里被吸收，最终都拿到胜出的那一行
type TagResolver struct{}

// NewResolver 创建标签解析器
func NewResolver() *TagResolver {
	return &TagResolver{}
}

// Resolve 查找已有标签，插入缺失标签，然后重新查询得到完整映射
func (r *TagResolver) Resolve(tx *gorm.DB, names []string) (map[string]uint, error) {
	if len(names) == 0 {
		return map[string]uint{}, nil
	}

	ids, err := r.lookup(tx, names)
	if err != nil {
		return nil, err
	}

	missing := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := ids[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return ids, nil
	}

	if err := r.insertMissing(tx, missing); err != nil {
		return nil, err
	}

	// 重新查询，覆盖被其他调用方抢先插入的行
	ids, err = r.lookup(tx, names)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if _, ok := ids[name]; !ok {
			return nil, apperrors.NewWithDetails(apperrors.ErrTagResolveFailed,
				"tag missing after insert", fmt.Sprintf("tag %q", name))
		}
	}
	return ids, nil
}

// lookup 查询名称在names中的标签
func (r *TagResolver) lookup(tx *gorm.DB, names []string) (map[string]uint, error) {
	var tags []database.Tag
	if err := tx.Where("name IN ?", names).Find(&tags).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, "failed to look up tags", err)
	}

	ids := make(map[string]uint, len(tags))
	for _, t := range tags {
		ids[t.Name] = t.ID
	}
	return ids, nil
}

// insertMissing 批量插入标签，名称冲突的行被忽略
func (r *TagResolver) insertMissing(tx *gorm.DB, names []string) error {
	rows := make([]database.Tag, 0, len(names))
	for _, name := range names {
		rows = append(rows, database.Tag{Name: name})
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err == nil {
		return nil
	}

	// 不支持ON CONFLICT的存储会直接报唯一键冲突，这同样是预期内的竞争结果
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		logger.WithFields(logrus.Fields{"tags": names}).Debug("tag insert lost a race, re-querying")
		return nil
	}
	return apperrors.Wrap(apperrors.ErrDatabaseInsert, "failed to create tags", err)
}
