package model

import "time"

type Note struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"column:title;size:100;not null" json:"title"`
	Text      string    `gorm:"column:text;type:text;not null" json:"text"`
	Slug      string    `gorm:"column:slug;size:100;not null;uniqueIndex:idx_note_slug" json:"slug"`
	AuthorID  int64     `gorm:"column:author_id;not null;index:idx_note_author_id" json:"authorId"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}
