package database

import (
	"strings"
	"time"
)

// User 用户模型
// 身份由外部协作方管理，笔记服务只通过ID引用用户
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	FullName  string    `gorm:"not null;size:100" json:"full_name"`
	Email     string    `gorm:"not null;uniqueIndex;size:100" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Notes []Note `gorm:"foreignKey:UserID" json:"-"`
}

// TableName 指定User模型对应的数据库表名
func (User) TableName() string {
	return "users"
}

// Note 笔记模型
// 通过IsDeleted做软删除，记录永远不会被物理删除
// 时间戳由笔记服务显式赋值，关闭了GORM的自动时间戳
type Note struct {
	ID            uint      `gorm:"primarykey" json:"id"`                            // 主键ID，自增
	UserID        uint      `gorm:"not null;index" json:"user_id"`                   // 所有者ID
	Title         string    `gorm:"not null;size:255" json:"title"`                  // 笔记标题，必填，最大255字符
	Content       string    `gorm:"type:text;not null" json:"content"`               // 笔记内容，不限长度
	TitleFolded   string    `gorm:"not null;default:''" json:"-"`                    // 小写标题，供不区分大小写的搜索使用
	ContentFolded string    `gorm:"type:text;not null;default:''" json:"-"`          // 小写内容
	IsDeleted     bool      `gorm:"not null;default:false;index" json:"-"`           // 软删除标记
	CreatedAt     time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"` // 创建时间，创建后不再改变
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"` // 最后修改时间，包括软删除

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Tags []Tag `gorm:"many2many:note_tags;" json:"tags,omitempty"`
}

// FoldText 返回搜索用的大小写折叠形式
// SQLite的LOWER只处理ASCII字母，所以折叠在Go中完成并存入影子列
func FoldText(s string) string {
	return strings.ToLower(s)
}

// Fold 根据标题和内容刷新影子列
func (n *Note) Fold() {
	n.TitleFolded = FoldText(n.Title)
	n.ContentFolded = FoldText(n.Content)
}

// TableName 指定Note模型对应的数据库表名
func (Note) TableName() string {
	return "notes"
}

// TagNames 返回已预加载标签的名称列表
func (n *Note) TagNames() []string {
	names := make([]string, 0, len(n.Tags))
	for _, t := range n.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Tag 标签模型
// 标签全局共享，不属于任何用户；Name是规范化后的名称（小写、去首尾空白），全局唯一
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"not null;uniqueIndex;size:50" json:"name"`
}

// TableName 指定Tag模型对应的数据库表名
func (Tag) TableName() string {
	return "tags"
}

// NoteTag 笔记标签关联模型
// 复合主键(note_id, tag_id)保证同一笔记最多关联同一标签一次
type NoteTag struct {
	NoteID uint `gorm:"primaryKey;autoIncrement:false" json:"note_id"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false;index" json:"tag_id"`

	Note *Note `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE" json:"-"`
	Tag  *Tag  `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定NoteTag模型对应的数据库表名
func (NoteTag) TableName() string {
	return "note_tags"
}
