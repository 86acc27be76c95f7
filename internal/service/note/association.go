package note

import (
	"github.com/weiwangfds/noteapi/internal/database"
	apperrors "github.com/weiwangfds/noteapi/internal/errors"
	"gorm.io/gorm"
)

// replaceNoteTags 用tagIDs整体替换笔记的标签关联
// 先删除笔记的全部关联行，再为每个不同的标签ID插入一行；标签本身从不删除
// 必须在调用方的事务中执行，否则读者可能看到空的或新旧混合的标签集合
func replaceNoteTags(tx *gorm.DB, noteID uint, tagIDs []uint) error {
	if err := tx.Where("note_id = ?", noteID).Delete(&database.NoteTag{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseUpdate, "failed to clear note tags", err)
	}

	rows := make([]database.NoteTag, 0, len(tagIDs))
	seen := make(map[uint]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, database.NoteTag{NoteID: noteID, TagID: id})
	}
	if len(rows) == 0 {
		return nil
	}

	if err := tx.Create(&rows).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseInsert, "failed to associate note tags", err)
	}
	return nil
}
