package dto

import "time"

// UserCreateRequest 用户注册请求参数
type UserCreateRequest struct {
	Username        string `json:"username" form:"username" binding:"required,max=150"`       // 用户名
	Password        string `json:"password" form:"password" binding:"required,min=6,max=128"` // 用户密码
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"` // 校验密码
}

// UserLoginRequest 用户登录请求参数
type UserLoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// UserDTO 用户数据传输对象
type UserDTO struct {
	UID       int64     `json:"uid"`
	Username  string    `json:"username"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthFormView backs the login and signup pages.
type AuthFormView struct {
	Username string
	Next     string
	Errors   map[string][]string
}
