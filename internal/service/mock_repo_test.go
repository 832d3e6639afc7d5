package service

import (
	"context"
	"sort"
	"sync"

	"github.com/haierkeys/ya-note-service/internal/domain"

	"gorm.io/gorm"
)

// memNoteRepo keeps notes in a map and enforces slug uniqueness like the database.
type memNoteRepo struct {
	domain.NoteRepository
	mu     sync.Mutex
	nextID int64
	notes  map[int64]*domain.Note
}

func newMemNoteRepo() *memNoteRepo {
	return &memNoteRepo{notes: map[int64]*domain.Note{}}
}

func (m *memNoteRepo) slugTaken(slug string, excludeID int64) bool {
	for id, n := range m.notes {
		if n.Slug == slug && id != excludeID {
			return true
		}
	}
	return false
}

func (m *memNoteRepo) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *memNoteRepo) GetBySlug(ctx context.Context, slug string) (*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notes {
		if n.Slug == slug {
			cp := *n
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memNoteRepo) ExistsSlug(ctx context.Context, slug string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slugTaken(slug, excludeID), nil
}

func (m *memNoteRepo) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugTaken(note.Slug, 0) {
		return nil, domain.ErrSlugExists
	}
	m.nextID++
	cp := *note
	cp.ID = m.nextID
	m.notes[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memNoteRepo) Update(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.notes[note.ID]
	if !ok || cur.AuthorID != note.AuthorID {
		return nil, gorm.ErrRecordNotFound
	}
	if m.slugTaken(note.Slug, note.ID) {
		return nil, domain.ErrSlugExists
	}
	cur.Title, cur.Text, cur.Slug = note.Title, note.Text, note.Slug
	out := *cur
	return &out, nil
}

func (m *memNoteRepo) Delete(ctx context.Context, id, uid int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.notes[id]
	if !ok || cur.AuthorID != uid {
		return gorm.ErrRecordNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *memNoteRepo) ListByAuthor(ctx context.Context, uid int64) ([]*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Note
	for _, n := range m.notes {
		if n.AuthorID == uid {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memNoteRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.notes)), nil
}

type memUserRepo struct {
	domain.UserRepository
	users []*domain.User
}

func (m *memUserRepo) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	for _, u := range m.users {
		if u.UID == uid {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, err := m.GetByUsername(ctx, user.Username); err == nil {
		return nil, domain.ErrUsernameExists
	}
	cp := *user
	cp.UID = int64(len(m.users) + 1)
	m.users = append(m.users, &cp)
	return &cp, nil
}
