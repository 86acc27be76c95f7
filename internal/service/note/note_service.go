// Package note 提供笔记管理相关的业务逻辑服务
// 包含笔记的创建、查询、整体更新、软删除，以及按搜索词和标签过滤的分页列表
// 所有操作都按所有者隔离：不存在、已删除和属于他人的笔记对调用方表现为同一个NotFound
package note

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/weiwangfds/noteapi/internal/database"
	apperrors "github.com/weiwangfds/noteapi/internal/errors"
	"github.com/weiwangfds/noteapi/internal/logger"
	"github.com/weiwangfds/noteapi/internal/service/tag"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoteService 笔记服务接口
type NoteService interface {
	// CreateNote 为userID创建笔记
	// 参数:
	//   ctx - 请求上下文，取消后事务回滚
	//   userID - 调用者ID，即笔记所有者
	//   req - 创建请求，标签名会被规范化和去重
	// 返回:
	//   *NoteDetail - 创建的笔记
	//   error - 错误信息
	CreateNote(ctx context.Context, userID uint, req *CreateNoteRequest) (*NoteDetail, error)

	// GetNoteByID 获取调用者自己的未删除笔记
	// 返回:
	//   *NoteDetail - 笔记详情，标签按名称升序
	//   error - 笔记不存在、已删除或不属于调用者时返回NotFound
	GetNoteByID(ctx context.Context, noteID, userID uint) (*NoteDetail, error)

	// UpdateNote 整体替换笔记的标题、内容和标签集合
	// 返回:
	//   *NoteDetail - 更新后的笔记
	//   error - 错误信息，不可见的笔记返回NotFound
	UpdateNote(ctx context.Context, noteID, userID uint, req *UpdateNoteRequest) (*NoteDetail, error)

	// DeleteNote 软删除笔记，之后的任何读取和再次删除都返回NotFound
	DeleteNote(ctx context.Context, noteID, userID uint) error

	// ListNotes 分页列出调用者的笔记，按更新时间倒序
	// 返回:
	//   *NoteList - 当前页和分页前的匹配总数
	//   error - 页码或每页数量不为正时返回校验错误
	ListNotes(ctx context.Context, userID uint, q ListQuery) (*NoteList, error)
}

// Option 笔记服务可选配置
type Option func(*noteService)

// WithClock 替换时间来源，测试中用于构造确定的时间戳
func WithClock(now func() time.Time) Option {
	return func(s *noteService) {
		s.now = now
	}
}

// noteService 笔记服务实现
type noteService struct {
	db       *gorm.DB
	resolver tag.Resolver
	now      func() time.Time
}

// NewNoteService 创建笔记服务实例
// 参数:
//
//	db - 数据库连接
//	resolver - 标签解析器，在笔记事务内把标签名解析为ID
//
// 返回:
//
//	NoteService - 笔记服务接口
func NewNoteService(db *gorm.DB, resolver tag.Resolver, opts ...Option) NoteService {
	s := &noteService{
		db:       db,
		resolver: resolver,
		now:      utcNow,
	}
	for _, opt := range opts {
		opt(s)
	}
	logger.Info("Note service initialized")
	return s
}

// utcNow 数据库按文本存储时间，统一使用UTC并截断到微秒，保证排序和往返比较一致
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// CreateNote 创建新笔记
func (s *noteService) CreateNote(ctx context.Context, userID uint, req *CreateNoteRequest) (*NoteDetail, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	names, err := normalizeRequestTags(req.Tags)
	if err != nil {
		return nil, err
	}

	log := logger.WithFields(logrus.Fields{"user_id": userID, "tags": names})
	now := s.now()

	var detail *NoteDetail
	err = s.withTx(ctx, func(tx *gorm.DB) error {
		note := database.Note{
			UserID:    userID,
			Title:     req.Title,
			Content:   req.Content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		note.Fold()
		if err := tx.Omit(clause.Associations).Create(&note).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrDatabaseInsert, "failed to create note", err)
		}

		if err := s.attachTags(tx, note.ID, names); err != nil {
			return err
		}

		detail, err = loadDetail(tx, note.ID, userID)
		return err
	})
	if err != nil {
		log.WithError(err).Error("Failed to create note")
		return nil, apperrors.Internal(apperrors.ErrDatabaseTransaction, "failed to create note", err)
	}

	log.WithField("note_id", detail.ID).Info("Note created")
	return detail, nil
}

// GetNoteByID 根据ID获取笔记详情
func (s *noteService) GetNoteByID(ctx context.Context, noteID, userID uint) (*NoteDetail, error) {
	detail, err := loadDetail(s.db.WithContext(ctx), noteID, userID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			logger.WithFields(logrus.Fields{"note_id": noteID, "user_id": userID}).
				WithError(err).Error("Failed to get note")
		}
		return nil, err
	}
	return detail, nil
}

// UpdateNote 更新笔记
func (s *noteService) UpdateNote(ctx context.Context, noteID, userID uint, req *UpdateNoteRequest) (*NoteDetail, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	names, err := normalizeRequestTags(req.Tags)
	if err != nil {
		return nil, err
	}

	log := logger.WithFields(logrus.Fields{"note_id": noteID, "user_id": userID, "tags": names})

	var detail *NoteDetail
	err = s.withTx(ctx, func(tx *gorm.DB) error {
		note, err := findOwned(tx, noteID, userID)
		if err != nil {
			return err
		}

		now := s.monotonicNow(note)
		res := ownedScope(tx.Model(&database.Note{}), noteID, userID).Updates(map[string]interface{}{
			"title":          req.Title,
			"content":        req.Content,
			"title_folded":   database.FoldText(req.Title),
			"content_folded": database.FoldText(req.Content),
			"updated_at":     now,
		})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrDatabaseUpdate, "failed to update note", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NoteNotFound(noteID)
		}

		if err := s.attachTags(tx, noteID, names); err != nil {
			return err
		}

		detail, err = loadDetail(tx, noteID, userID)
		return err
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		log.WithError(err).Error("Failed to update note")
		return nil, apperrors.Internal(apperrors.ErrDatabaseTransaction, "failed to update note", err)
	}

	log.Info("Note updated")
	return detail, nil
}

// DeleteNote 软删除笔记
func (s *noteService) DeleteNote(ctx context.Context, noteID, userID uint) error {
	log := logger.WithFields(logrus.Fields{"note_id": noteID, "user_id": userID})

	err := s.withTx(ctx, func(tx *gorm.DB) error {
		note, err := findOwned(tx, noteID, userID)
		if err != nil {
			return err
		}

		res := ownedScope(tx.Model(&database.Note{}), noteID, userID).Updates(map[string]interface{}{
			"is_deleted": true,
			"updated_at": s.monotonicNow(note),
		})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrDatabaseUpdate, "failed to delete note", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NoteNotFound(noteID)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return err
		}
		log.WithError(err).Error("Failed to delete note")
		return apperrors.Internal(apperrors.ErrDatabaseTransaction, "failed to delete note", err)
	}

	log.Info("Note soft-deleted")
	return nil
}

// attachTags 在事务内解析标签并替换笔记的关联集合
func (s *noteService) attachTags(tx *gorm.DB, noteID uint, names []string) error {
	ids, err := s.resolver.Resolve(tx, names)
	if err != nil {
		return err
	}

	tagIDs := make([]uint, 0, len(names))
	for _, name := range names {
		tagIDs = append(tagIDs, ids[name])
	}
	return replaceNoteTags(tx, noteID, tagIDs)
}

// monotonicNow 返回当前时间，但不早于笔记的创建时间
func (s *noteService) monotonicNow(note *database.Note) time.Time {
	now := s.now()
	if now.Before(note.CreatedAt) {
		return note.CreatedAt
	}
	return now
}

// withTx 在ctx绑定的事务中执行fn，fn返回错误或panic时回滚
func (s *noteService) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseTransaction, "failed to begin transaction", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseTransaction, "failed to commit transaction", err)
	}
	return nil
}

// normalizeRequestTags 规范化请求中的标签并检查长度
func normalizeRequestTags(raw []string) ([]string, error) {
	names := tag.NormalizeTagNames(raw)
	for _, name := range names {
		if utf8.RuneCountInString(name) > tag.MaxNameLength {
			return nil, apperrors.Validation("tag name too long").WithFields(map[string]string{
				"tags": fmt.Sprintf("tag %q exceeds %d characters", name, tag.MaxNameLength),
			})
		}
	}
	return names, nil
}

// ownedScope 限定为调用者自己的未删除笔记
func ownedScope(db *gorm.DB, noteID, userID uint) *gorm.DB {
	return db.Where("notes.id = ? AND notes.user_id = ? AND notes.is_deleted = ?", noteID, userID, false)
}

// sortedTags 预加载标签并按名称升序
func sortedTags(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.name ASC")
	})
}

// findOwned 加载调用者可见的笔记，不含标签
func findOwned(tx *gorm.DB, noteID, userID uint) (*database.Note, error) {
	var note database.Note
	if err := ownedScope(tx, noteID, userID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NoteNotFound(noteID)
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, "failed to load note", err)
	}
	return &note, nil
}

// loadDetail 加载调用者可见的笔记及其标签
func loadDetail(db *gorm.DB, noteID, userID uint) (*NoteDetail, error) {
	var note database.Note
	if err := ownedScope(sortedTags(db), noteID, userID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NoteNotFound(noteID)
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, "failed to load note", err)
	}
	return toDetail(&note), nil
}
