package database

import (
	"errors"

	"github.com/weiwangfds/noteapi/internal/logger"
	"gorm.io/gorm"
)

// Migrate 执行笔记系统相关表的数据库迁移
// 参数: db *gorm.DB - GORM数据库连接实例
// 返回值: error - 迁移失败时返回错误信息
// 用途: 创建用户、笔记、标签和关联表，并建立列表查询所需的索引
func Migrate(db *gorm.DB) error {
	// note_tags使用自定义关联模型（复合主键），必须在迁移前注册
	if err := db.SetupJoinTable(&Note{}, "Tags", &NoteTag{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&User{},
		&Note{},
		&Tag{},
		&NoteTag{},
	); err != nil {
		return err
	}

	if err := backfillFolded(db); err != nil {
		return err
	}
	return createNotesIndexes(db)
}

// backfillFolded 为影子列出现之前写入的笔记补齐小写标题和内容
func backfillFolded(db *gorm.DB) error {
	var notes []Note
	res := db.Select("id", "title", "content").
		Where("title_folded = '' AND title <> ''").
		FindInBatches(&notes, 200, func(tx *gorm.DB, batch int) error {
			for i := range notes {
				notes[i].Fold()
				err := db.Model(&Note{}).Where("id = ?", notes[i].ID).UpdateColumns(map[string]interface{}{
					"title_folded":   notes[i].TitleFolded,
					"content_folded": notes[i].ContentFolded,
				}).Error
				if err != nil {
					return err
				}
			}
			return nil
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		logger.Infof("backfilled folded search columns for %d notes", res.RowsAffected)
	}
	return nil
}

// createNotesIndexes 创建笔记列表查询的复合索引
func createNotesIndexes(db *gorm.DB) error {
	indexes := []string{
		// 列表查询：按所有者过滤未删除笔记并按更新时间倒序
		"CREATE INDEX IF NOT EXISTS idx_notes_owner_updated ON notes(user_id, is_deleted, updated_at DESC, id DESC)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			logger.Errorf("failed to create index: %s, error: %v", indexSQL, err)
			return err
		}
	}
	return nil
}

// DevUserEmail 开发模式下预置用户的邮箱
const DevUserEmail = "dev@localhost"

// SeedDevUser 在开发环境中确保存在一个可用的用户
// 返回值: 用户ID
// 用途: 本地调试时配合X-User-ID请求头直接调用笔记接口
func SeedDevUser(db *gorm.DB) (uint, error) {
	var user User
	err := db.Where("email = ?", DevUserEmail).First(&user).Error
	if err == nil {
		return user.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	user = User{FullName: "Developer", Email: DevUserEmail}
	if err := db.Create(&user).Error; err != nil {
		return 0, err
	}
	logger.Infof("seeded development user %d (%s)", user.ID, user.Email)
	return user.ID, nil
}
