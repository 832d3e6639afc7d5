// Package domain 定义领域模型和接口
package domain

import "context"

// NoteRepository 笔记仓储接口
type NoteRepository interface {
	// GetByID 根据ID获取笔记
	GetByID(ctx context.Context, id int64) (*Note, error)

	// GetBySlug returns the note with slug regardless of its author.
	GetBySlug(ctx context.Context, slug string) (*Note, error)

	// ExistsSlug reports whether a note other than excludeID already uses slug.
	ExistsSlug(ctx context.Context, slug string, excludeID int64) (bool, error)

	// Create 创建笔记，slug 冲突时返回 ErrSlugExists
	Create(ctx context.Context, note *Note) (*Note, error)

	// Update 更新笔记的标题、正文和 slug，作者不可变更
	Update(ctx context.Context, note *Note) (*Note, error)

	// Delete 物理删除笔记
	Delete(ctx context.Context, id, uid int64) error

	// ListByAuthor 获取作者的全部笔记，按 id 升序
	ListByAuthor(ctx context.Context, uid int64) ([]*Note, error)

	// Count 笔记总数
	Count(ctx context.Context) (int64, error)
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// GetByUID 根据UID获取用户
	GetByUID(ctx context.Context, uid int64) (*User, error)

	// GetByUsername 根据用户名获取用户
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Create 创建用户，用户名冲突时返回 ErrUsernameExists
	Create(ctx context.Context, user *User) (*User, error)
}
