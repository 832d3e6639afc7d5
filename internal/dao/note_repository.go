package dao

import (
	"context"
	"time"

	"github.com/haierkeys/ya-note-service/internal/domain"
	"github.com/haierkeys/ya-note-service/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

var _ domain.NoteRepository = (*noteRepository)(nil)

func (r *noteRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.DB.WithContext(ctx)
}

// toDomain 将数据库模型转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	return &domain.Note{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Title:     m.Title,
		Text:      m.Text,
		Slug:      m.Slug,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(n *domain.Note) *model.Note {
	if n == nil {
		return nil
	}
	return &model.Note{
		ID:        n.ID,
		AuthorID:  n.AuthorID,
		Title:     n.Title,
		Text:      n.Text,
		Slug:      n.Slug,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// GetByID 根据ID获取笔记
func (r *noteRepository) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	var m model.Note
	if err := r.db(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetBySlug 根据 slug 获取笔记
func (r *noteRepository) GetBySlug(ctx context.Context, slug string) (*domain.Note, error) {
	var m model.Note
	if err := r.db(ctx).Where("slug = ?", slug).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// ExistsSlug 判断 slug 是否已被其他笔记占用
func (r *noteRepository) ExistsSlug(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int64
	q := r.db(ctx).Model(&model.Note{}).Where("slug = ?", slug)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建笔记
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	m := r.toModel(note)
	now := time.Now()
	m.ID = 0
	m.CreatedAt = now
	m.UpdatedAt = now

	err := r.dao.ExecuteWrite(ctx, note.AuthorID, func() error {
		return r.db(ctx).Create(m).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			r.dao.logger.Debug("slug taken on insert", zap.String("slug", note.Slug))
			return nil, domain.ErrSlugExists
		}
		return nil, err
	}
	return r.toDomain(m), nil
}

// Update 更新笔记，只允许作者本人更新
func (r *noteRepository) Update(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	err := r.dao.ExecuteWrite(ctx, note.AuthorID, func() error {
		return r.db(ctx).Model(&model.Note{}).
			Where("id = ? AND author_id = ?", note.ID, note.AuthorID).
			Updates(map[string]interface{}{
				"title":      note.Title,
				"text":       note.Text,
				"slug":       note.Slug,
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			r.dao.logger.Debug("slug taken on update", zap.String("slug", note.Slug))
			return nil, domain.ErrSlugExists
		}
		return nil, err
	}

	var m model.Note
	if err := r.db(ctx).Where("id = ? AND author_id = ?", note.ID, note.AuthorID).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Delete 物理删除笔记，非作者删除返回 gorm.ErrRecordNotFound
func (r *noteRepository) Delete(ctx context.Context, id, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func() error {
		res := r.db(ctx).Where("id = ? AND author_id = ?", id, uid).Delete(&model.Note{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListByAuthor 获取作者的全部笔记
func (r *noteRepository) ListByAuthor(ctx context.Context, uid int64) ([]*domain.Note, error) {
	var ms []*model.Note
	if err := r.db(ctx).Where("author_id = ?", uid).Order("id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	notes := make([]*domain.Note, 0, len(ms))
	for _, m := range ms {
		notes = append(notes, r.toDomain(m))
	}
	return notes, nil
}

// Count 笔记总数
func (r *noteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db(ctx).Model(&model.Note{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
