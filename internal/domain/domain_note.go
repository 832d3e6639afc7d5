package domain

import (
	"errors"
	"time"
)

// SlugMaxLength is the width of the slug column.
const SlugMaxLength = 100

// ErrSlugExists is returned by the store when a slug is already taken.
var ErrSlugExists = errors.New("note slug already exists")

// Note 笔记领域模型
type Note struct {
	ID        int64
	AuthorID  int64
	Title     string
	Text      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAuthor 判断 uid 是否为笔记作者
func (n *Note) IsAuthor(uid int64) bool {
	return n != nil && uid > 0 && n.AuthorID == uid
}
