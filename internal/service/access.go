package service

import "github.com/haierkeys/ya-note-service/internal/domain"

// CanAccess reports whether requester may view, edit or delete note.
// Only the author may; anonymous requesters (uid 0) never may.
func CanAccess(requester int64, note *domain.Note) bool {
	return note.IsAuthor(requester)
}
