// Package model 定义数据库表结构
package model

import (
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table of the service.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Note{})
}
