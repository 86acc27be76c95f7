package note

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/weiwangfds/noteapi/internal/database"
	apperrors "github.com/weiwangfds/noteapi/internal/errors"
	"github.com/weiwangfds/noteapi/internal/logger"
	"github.com/weiwangfds/noteapi/internal/service/tag"
	"gorm.io/gorm"
)

// likeEscaper 转义LIKE通配符，使搜索词按字面匹配
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListNotes 分页列出笔记
func (s *noteService) ListNotes(ctx context.Context, userID uint, q ListQuery) (*NoteList, error) {
	if q.Page <= 0 || q.PageSize <= 0 {
		return nil, apperrors.NewWithDetails(apperrors.ErrInvalidPagination,
			apperrors.GetErrorMessage(apperrors.ErrInvalidPagination),
			fmt.Sprintf("page=%d size=%d", q.Page, q.PageSize))
	}
	pageSize := q.PageSize
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	tags := tag.NormalizeTagNames(q.Tags)
	log := logger.WithFields(logrus.Fields{
		"user_id": userID,
		"page":    q.Page,
		"size":    pageSize,
		"search":  q.Search,
		"tags":    tags,
	})

	base := s.db.WithContext(ctx).Model(&database.Note{}).
		Where("notes.user_id = ? AND notes.is_deleted = ?", userID, false)

	// 空白搜索词不过滤；否则按原样（只折叠大小写）匹配影子列
	if strings.TrimSpace(q.Search) != "" {
		pattern := "%" + likeEscaper.Replace(database.FoldText(q.Search)) + "%"
		base = base.Where(`(notes.title_folded LIKE ? ESCAPE '\' OR notes.content_folded LIKE ? ESCAPE '\')`,
			pattern, pattern)
	}

	if len(tags) > 0 {
		// 笔记标签中落在过滤集合内的数量等于过滤集合大小，即笔记标签是过滤集合的超集
		matched := s.db.Table("note_tags").
			Select("COUNT(*)").
			Joins("JOIN tags ON tags.id = note_tags.tag_id").
			Where("note_tags.note_id = notes.id AND tags.name IN ?", tags)
		base = base.Where("(?) = ?", matched, len(tags))
	}

	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		log.WithError(err).Error("Failed to count notes")
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, "failed to count notes", err)
	}

	var notes []database.Note
	if err := sortedTags(base).
		Order("notes.updated_at DESC, notes.id DESC").
		Offset((q.Page - 1) * pageSize).
		Limit(pageSize).
		Find(&notes).Error; err != nil {
		log.WithError(err).Error("Failed to list notes")
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, "failed to list notes", err)
	}

	summaries := make([]NoteSummary, 0, len(notes))
	for i := range notes {
		summaries = append(summaries, toSummary(&notes[i]))
	}

	log.WithFields(logrus.Fields{"total": total, "returned": len(summaries)}).Debug("Listed notes")
	return &NoteList{
		Notes:      summaries,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   pageSize,
	}, nil
}
