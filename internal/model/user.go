package model

import "time"

type User struct {
	UID       int64     `gorm:"column:uid;primaryKey;autoIncrement" json:"uid"`
	Username  string    `gorm:"column:username;size:150;not null;uniqueIndex:idx_user_username" json:"username"`
	Password  string    `gorm:"column:password;size:255;not null" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}
