package repository

import (
	"context"

	"github.com/AlibekovAA/dh-notes/internal/note/domain"
)

// Store persists notes. Ids are allocated by the store; Insert ignores any id on
// the given note. FindByID, Update and Delete fail with ErrNoteNotFound when the
// id does not exist. Listing and search return notes in ascending id order.
type Store interface {
	Insert(ctx context.Context, note domain.Note) (domain.Note, error)
	FindByID(ctx context.Context, id domain.ID) (domain.Note, error)
	FindAll(ctx context.Context) ([]domain.Note, error)
	Update(ctx context.Context, note domain.Note) (domain.Note, error)
	Delete(ctx context.Context, id domain.ID) error
	// Search returns the page-th slice of notes whose title or content contains
	// keyword (case-sensitive) and the total number of matches. Pages whose
	// offset does not fit in an int are empty.
	Search(ctx context.Context, keyword string, page, size int) ([]domain.Note, int64, error)
}
