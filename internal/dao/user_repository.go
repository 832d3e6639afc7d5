package dao

import (
	"context"
	"time"

	"github.com/haierkeys/ya-note-service/internal/domain"
	"github.com/haierkeys/ya-note-service/internal/model"

	"gorm.io/gorm"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

var _ domain.UserRepository = (*userRepository)(nil)

func (r *userRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.DB.WithContext(ctx)
}

// toDomain 将数据库模型转换为领域模型
func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		UID:       m.UID,
		Username:  m.Username,
		Password:  m.Password,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// GetByUID 根据UID获取用户
func (r *userRepository) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	var m model.User
	if err := r.db(ctx).Where("uid = ?", uid).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetByUsername 根据用户名获取用户
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m model.User
	if err := r.db(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now()
	m := &model.User{
		Username:  user.Username,
		Password:  user.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUsernameExists
		}
		return nil, err
	}
	return r.toDomain(m), nil
}
