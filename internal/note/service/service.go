package service

import (
	"context"
	"strings"

	"github.com/AlibekovAA/dh-notes/internal/common/clock"
	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
	"github.com/AlibekovAA/dh-notes/internal/common/logger"
	"github.com/AlibekovAA/dh-notes/internal/note/domain"
	"github.com/AlibekovAA/dh-notes/internal/note/repository"
)

type EventPublisher interface {
	Publish(event domain.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(domain.Event) {}

// NoteService owns validation and timestamping. The store is only reached with
// notes that already satisfy the title and content constraints.
type NoteService struct {
	store     repository.Store
	validator *NoteValidator
	clock     clock.Clock
	publisher EventPublisher
	log       *logger.Logger
}

func NewNoteService(store repository.Store, clk clock.Clock, publisher EventPublisher, log *logger.Logger) *NoteService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &NoteService{
		store:     store,
		validator: NewNoteValidator(),
		clock:     clk,
		publisher: publisher,
		log:       log,
	}
}

func (s *NoteService) GetAll(ctx context.Context) (notes []domain.Note, err error) {
	defer func() { recordOperation("get_all", err) }()

	notes, err = s.store.FindAll(ctx)
	if err != nil {
		return nil, s.storeFailure(ctx, "note_get_all_failed", err)
	}
	return notes, nil
}

func (s *NoteService) GetByID(ctx context.Context, id domain.ID) (note domain.Note, err error) {
	defer func() { recordOperation("get_by_id", err) }()

	if id <= 0 {
		return domain.Note{}, commonerrors.ErrInvalidNoteID
	}

	note, err = s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Note{}, s.storeFailure(ctx, "note_get_failed", err)
	}
	return note, nil
}

// Create validates and persists a new note. A nil note is rejected.
func (s *NoteService) Create(ctx context.Context, note *domain.Note) (created domain.Note, err error) {
	defer func() { recordOperation("create", err) }()

	if note == nil {
		return domain.Note{}, commonerrors.ErrNoteValidation.WithMessage("note must not be empty")
	}
	if err := s.validator.Validate(*note); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "note_create_validation_failed",
		}).Warnf("note create validation failed: %v", err)
		return domain.Note{}, err
	}

	candidate := domain.NewNote(note.Title, note.Content).WithCreatedAt(s.clock.Now())
	created, err = s.store.Insert(ctx, candidate)
	if err != nil {
		return domain.Note{}, s.storeFailure(ctx, "note_create_failed", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"note_id": int64(created.ID),
		"action":  "note_create",
	}).Info("note created")
	s.publisher.Publish(domain.Event{Type: domain.EventCreated, ID: created.ID, Note: &created})

	return created, nil
}

// Update overwrites title and content of an existing note and stamps
// UpdatedAt. CreatedAt is preserved.
func (s *NoteService) Update(ctx context.Context, note *domain.Note) (updated domain.Note, err error) {
	defer func() { recordOperation("update", err) }()

	if note == nil {
		return domain.Note{}, commonerrors.ErrNoteValidation.WithMessage("note must not be empty")
	}
	if note.ID <= 0 {
		return domain.Note{}, commonerrors.ErrInvalidNoteID.WithMessage("note id is required for update")
	}

	existing, err := s.store.FindByID(ctx, note.ID)
	if err != nil {
		return domain.Note{}, s.storeFailure(ctx, "note_update_lookup_failed", err)
	}

	if err := s.validator.Validate(*note); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"note_id": int64(note.ID),
			"action":  "note_update_validation_failed",
		}).Warnf("note update validation failed: %v", err)
		return domain.Note{}, err
	}

	candidate := existing.
		WithTitle(note.Title).
		WithContent(note.Content).
		Touched(s.clock.Now())

	updated, err = s.store.Update(ctx, candidate)
	if err != nil {
		return domain.Note{}, s.storeFailure(ctx, "note_update_failed", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"note_id": int64(updated.ID),
		"action":  "note_update",
	}).Info("note updated")
	s.publisher.Publish(domain.Event{Type: domain.EventUpdated, ID: updated.ID, Note: &updated})

	return updated, nil
}

func (s *NoteService) DeleteByID(ctx context.Context, id domain.ID) (err error) {
	defer func() { recordOperation("delete", err) }()

	if id <= 0 {
		return commonerrors.ErrInvalidNoteID
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return s.storeFailure(ctx, "note_delete_failed", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"note_id": int64(id),
		"action":  "note_delete",
	}).Info("note deleted")
	s.publisher.Publish(domain.Event{Type: domain.EventDeleted, ID: id})

	return nil
}

// Search returns one page of notes containing keyword in title or content.
// A blank keyword yields an empty page rather than every note.
func (s *NoteService) Search(ctx context.Context, keyword string, page, size int) (result domain.Page, err error) {
	defer func() { recordOperation("search", err) }()

	if page < 0 || size <= 0 {
		return domain.Page{}, commonerrors.ErrInvalidPagination
	}
	if strings.TrimSpace(keyword) == "" {
		return domain.EmptyPage(page, size), nil
	}

	notes, total, err := s.store.Search(ctx, keyword, page, size)
	if err != nil {
		return domain.Page{}, s.storeFailure(ctx, "note_search_failed", err)
	}
	return domain.NewPage(notes, page, size, total), nil
}

// storeFailure passes domain errors such as not-found through unchanged and
// wraps anything else as a database error.
func (s *NoteService) storeFailure(ctx context.Context, action string, err error) error {
	if commonerrors.IsDomainError(err) && !commonerrors.IsCategory(err, commonerrors.CategoryInternal) {
		return err
	}
	s.log.WithFields(ctx, logger.Fields{
		"action": action,
	}).Errorf("note store failure: %v", err)
	if commonerrors.IsDomainError(err) {
		return err
	}
	return commonerrors.ErrDatabaseError.WithCause(err)
}
