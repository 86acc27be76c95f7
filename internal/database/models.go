// Package database 定义了数据库连接、模型和迁移
// 包含用户、笔记、标签以及笔记标签关联四张表
package database

// 具体的模型定义：
// - note_models.go: User, Note, Tag, NoteTag
// - migrations.go: 表结构迁移与索引
