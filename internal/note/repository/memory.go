package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
	"github.com/AlibekovAA/dh-notes/internal/note/domain"
)

type MemoryStore struct {
	mu     sync.RWMutex
	notes  map[domain.ID]domain.Note
	nextID domain.ID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{notes: make(map[domain.ID]domain.Note)}
}

func (s *MemoryStore) Insert(ctx context.Context, note domain.Note) (domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return domain.Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	note = note.WithID(s.nextID)
	s.notes[note.ID] = note
	return note, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id domain.ID) (domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return domain.Note{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[id]
	if !ok {
		return domain.Note{}, commonerrors.ErrNoteNotFound
	}
	return note, nil
}

func (s *MemoryStore) FindAll(ctx context.Context) ([]domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sorted(func(domain.Note) bool { return true }), nil
}

func (s *MemoryStore) Update(ctx context.Context, note domain.Note) (domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return domain.Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.notes[note.ID]
	if !ok {
		return domain.Note{}, commonerrors.ErrNoteNotFound
	}

	updated := existing.WithTitle(note.Title).WithContent(note.Content)
	if note.UpdatedAt != nil {
		updated = updated.Touched(*note.UpdatedAt)
	}
	s.notes[note.ID] = updated
	return updated, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id domain.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return commonerrors.ErrNoteNotFound
	}
	delete(s.notes, id)
	return nil
}

func (s *MemoryStore) Search(ctx context.Context, keyword string, page, size int) ([]domain.Note, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	matches := s.sorted(func(n domain.Note) bool {
		return strings.Contains(n.Title, keyword) || strings.Contains(n.Content, keyword)
	})
	s.mu.RUnlock()

	total := int64(len(matches))
	start, ok := domain.PageOffset(page, size)
	if !ok || start >= len(matches) {
		return []domain.Note{}, total, nil
	}
	end := len(matches)
	if size < end-start {
		end = start + size
	}
	return matches[start:end], total, nil
}

func (s *MemoryStore) sorted(keep func(domain.Note) bool) []domain.Note {
	out := make([]domain.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if keep(n) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
