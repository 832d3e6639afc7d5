package domain

import (
	"errors"
	"time"
)

// ErrUsernameExists is returned when a username is already registered.
var ErrUsernameExists = errors.New("username already exists")

// User 用户领域模型
type User struct {
	UID       int64
	Username  string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
