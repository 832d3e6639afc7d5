package service

import (
	"context"
	"errors"
	"strings"

	"github.com/haierkeys/ya-note-service/internal/domain"
	"github.com/haierkeys/ya-note-service/internal/dto"
	"github.com/haierkeys/ya-note-service/pkg/code"
	"github.com/haierkeys/ya-note-service/pkg/logger"
	"github.com/haierkeys/ya-note-service/pkg/slug"
	"github.com/haierkeys/ya-note-service/pkg/writequeue"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NoteService 定义笔记业务服务接口
// Notes of other authors behave as if they did not exist.
type NoteService interface {
	// List 获取作者自己的笔记
	List(ctx context.Context, uid int64) ([]*dto.NoteDTO, error)

	// Get 获取单条笔记
	Get(ctx context.Context, uid int64, slug string) (*dto.NoteDTO, error)

	// Create 创建笔记，slug 留空时由标题生成
	Create(ctx context.Context, uid int64, params *dto.NoteForm) (*dto.NoteDTO, error)

	// Update 更新笔记
	Update(ctx context.Context, uid int64, slug string, params *dto.NoteForm) (*dto.NoteDTO, error)

	// Delete 删除笔记
	Delete(ctx context.Context, uid int64, slug string) error

	// Count 笔记总数
	Count(ctx context.Context) (int64, error)
}

type noteService struct {
	noteRepo domain.NoteRepository
	logger   *zap.Logger
	config   *ServiceConfig
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(noteRepo domain.NoteRepository, logger *zap.Logger, config *ServiceConfig) NoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noteService{
		noteRepo: noteRepo,
		logger:   logger,
		config:   config,
	}
}

var _ NoteService = (*noteService)(nil)

// domainToDTO 将领域模型转换为 DTO
func (s *noteService) domainToDTO(note *domain.Note) *dto.NoteDTO {
	if note == nil {
		return nil
	}
	out := &dto.NoteDTO{}
	if err := copier.Copy(out, note); err != nil {
		s.logger.Warn("copy note to dto", zap.Error(err))
	}
	return out
}

func (s *noteService) List(ctx context.Context, uid int64) ([]*dto.NoteDTO, error) {
	if uid <= 0 {
		return nil, code.ErrorNotUserAuthToken
	}
	notes, err := s.noteRepo.ListByAuthor(ctx, uid)
	if err != nil {
		return nil, dbError(err)
	}
	out := make([]*dto.NoteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, s.domainToDTO(n))
	}
	return out, nil
}

func (s *noteService) Get(ctx context.Context, uid int64, slug string) (*dto.NoteDTO, error) {
	note, err := s.getOwned(ctx, uid, slug)
	if err != nil {
		return nil, err
	}
	return s.domainToDTO(note), nil
}

func (s *noteService) Create(ctx context.Context, uid int64, params *dto.NoteForm) (*dto.NoteDTO, error) {
	if uid <= 0 {
		return nil, code.ErrorNotUserAuthToken
	}

	note := &domain.Note{AuthorID: uid}
	if err := s.apply(note, params); err != nil {
		return nil, err
	}
	if err := s.cleanSlug(ctx, note); err != nil {
		return nil, err
	}

	created, err := s.noteRepo.Create(ctx, note)
	if err != nil {
		if errors.Is(err, domain.ErrSlugExists) {
			return nil, slugExists(note.Slug)
		}
		return nil, writeError(code.ErrorNoteCreateFailed, err)
	}

	s.logger.Info("note created",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, created.ID),
		zap.String(logger.FieldSlug, created.Slug))
	return s.domainToDTO(created), nil
}

func (s *noteService) Update(ctx context.Context, uid int64, slug string, params *dto.NoteForm) (*dto.NoteDTO, error) {
	note, err := s.getOwned(ctx, uid, slug)
	if err != nil {
		return nil, err
	}

	if err := s.apply(note, params); err != nil {
		return nil, err
	}
	if err := s.cleanSlug(ctx, note); err != nil {
		return nil, err
	}

	updated, err := s.noteRepo.Update(ctx, note)
	if err != nil {
		if errors.Is(err, domain.ErrSlugExists) {
			return nil, slugExists(note.Slug)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, writeError(code.ErrorNoteUpdateFailed, err)
	}

	s.logger.Info("note updated",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, updated.ID),
		zap.String(logger.FieldSlug, updated.Slug))
	return s.domainToDTO(updated), nil
}

func (s *noteService) Delete(ctx context.Context, uid int64, slug string) error {
	note, err := s.getOwned(ctx, uid, slug)
	if err != nil {
		return err
	}

	if err := s.noteRepo.Delete(ctx, note.ID, uid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorNoteNotFound
		}
		return writeError(code.ErrorNoteDeleteFailed, err)
	}

	s.logger.Info("note deleted",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, note.ID),
		zap.String(logger.FieldSlug, note.Slug))
	return nil
}

func (s *noteService) Count(ctx context.Context) (int64, error) {
	count, err := s.noteRepo.Count(ctx)
	if err != nil {
		return 0, dbError(err)
	}
	return count, nil
}

// getOwned loads the note by slug and hides it from everyone but its author.
func (s *noteService) getOwned(ctx context.Context, uid int64, slug string) (*domain.Note, error) {
	if uid <= 0 {
		return nil, code.ErrorNotUserAuthToken
	}
	note, err := s.noteRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, dbError(err)
	}
	if !CanAccess(uid, note) {
		return nil, code.ErrorNoteNotFound
	}
	return note, nil
}

// apply copies the submitted fields; surrounding whitespace is dropped.
func (s *noteService) apply(note *domain.Note, params *dto.NoteForm) error {
	if params == nil {
		return code.ErrorInvalidParams
	}
	note.Title = strings.TrimSpace(params.Title)
	note.Text = strings.TrimSpace(params.Text)
	note.Slug = strings.TrimSpace(params.Slug)

	var missing []string
	if note.Title == "" {
		missing = append(missing, "title")
	}
	if note.Text == "" {
		missing = append(missing, "text")
	}
	if len(missing) > 0 {
		return code.ErrorInvalidParams.WithDetails(missing...)
	}
	return nil
}

// cleanSlug derives an empty slug from the title and rejects one used by another note.
func (s *noteService) cleanSlug(ctx context.Context, note *domain.Note) error {
	if note.Slug == "" {
		note.Slug = slug.Truncate(slug.Make(note.Title), s.config.slugMaxLength())
	}
	if note.Slug == "" {
		return code.ErrorNoteSlugEmpty
	}

	exists, err := s.noteRepo.ExistsSlug(ctx, note.Slug, note.ID)
	if err != nil {
		return dbError(err)
	}
	if exists {
		return slugExists(note.Slug)
	}
	return nil
}

func slugExists(s string) error {
	return code.ErrorNoteSlugExists.WithDetails(s + code.SlugExistsWarning)
}

func dbError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return code.ErrorRequestTimeout
	}
	return code.ErrorDBQuery.WithDetails(err.Error())
}

func writeError(c *code.Code, err error) error {
	switch {
	case errors.Is(err, writequeue.ErrWriteQueueClosed):
		return code.ErrorWriteQueueClosed
	case errors.Is(err, writequeue.ErrWriteTimeout), errors.Is(err, writequeue.ErrWriteQueueFull),
		errors.Is(err, context.DeadlineExceeded):
		return code.ErrorRequestTimeout
	}
	return c.WithDetails(err.Error())
}
