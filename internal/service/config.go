// Package service 实现业务逻辑层
package service

import "github.com/haierkeys/ya-note-service/internal/domain"

// ServiceConfig 服务层配置
type ServiceConfig struct {
	User UserServiceConfig
	Note NoteServiceConfig
}

// UserServiceConfig 用户服务配置
type UserServiceConfig struct {
	RegisterIsEnable bool // 注册是否启用
}

// NoteServiceConfig 笔记服务配置
type NoteServiceConfig struct {
	SlugMaxLength int // derived slugs are cut to this many characters, at most domain.SlugMaxLength
}

func (c *ServiceConfig) slugMaxLength() int {
	if c == nil || c.Note.SlugMaxLength <= 0 || c.Note.SlugMaxLength > domain.SlugMaxLength {
		return domain.SlugMaxLength
	}
	return c.Note.SlugMaxLength
}
