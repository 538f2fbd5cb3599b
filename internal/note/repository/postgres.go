package repository

import (
	"context"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	commondb "github.com/AlibekovAA/dh-notes/internal/common/db"
	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
	"github.com/AlibekovAA/dh-notes/internal/common/logger"
	"github.com/AlibekovAA/dh-notes/internal/note/domain"
)

const noteColumns = `id, title, content, created_at, updated_at`

// Containment uses strpos rather than LIKE so keywords are matched literally.
const searchPredicate = `strpos(title, $1) > 0 OR strpos(content, $1) > 0`

type PgStore struct {
	pool  *pgxpool.Pool
	log   *logger.Logger
	retry commondb.RetryConfig
}

func NewPgStore(pool *pgxpool.Pool, log *logger.Logger) *PgStore {
	return &PgStore{pool: pool, log: log, retry: commondb.DefaultRetryConfig}
}

func (s *PgStore) Insert(ctx context.Context, note domain.Note) (domain.Note, error) {
	var saved domain.Note
	err := commondb.RetryWithBackoff(ctx, s.log, s.retry, "insert_note", func(ctx context.Context) error {
		start := time.Now()
		row := s.pool.QueryRow(
			ctx,
			`INSERT INTO notes (title, content, created_at, updated_at)
			 VALUES ($1, $2, $3, $4)
			 RETURNING `+noteColumns,
			note.Title,
			note.Content,
			note.CreatedAt,
			note.UpdatedAt,
		)
		var err error
		saved, err = scanNote(row)
		return commondb.HandleExecError(err, "insert note", start)
	})
	if err != nil {
		return domain.Note{}, err
	}
	return saved, nil
}

func (s *PgStore) FindByID(ctx context.Context, id domain.ID) (domain.Note, error) {
	var note domain.Note
	err := commondb.RetryWithBackoff(ctx, s.log, s.retry, "find_note", func(ctx context.Context) error {
		start := time.Now()
		row := s.pool.QueryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, int64(id))
		var err error
		note, err = scanNote(row)
		return commondb.HandleQueryError(err, commonerrors.ErrNoteNotFound, "find note by id", start)
	})
	if err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (s *PgStore) FindAll(ctx context.Context) ([]domain.Note, error) {
	var notes []domain.Note
	err := commondb.RetryWithBackoff(ctx, s.log, s.retry, "list_notes", func(ctx context.Context) error {
		start := time.Now()
		rows, err := s.pool.Query(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY id`)
		if err != nil {
			return commondb.HandleQueryError(err, nil, "list notes", start)
		}
		notes, err = collectNotes(rows)
		return commondb.HandleQueryError(err, nil, "list notes", start)
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// Update writes title, content and updated_at only; created_at is never touched.
func (s *PgStore) Update(ctx context.Context, note domain.Note) (domain.Note, error) {
	var updated domain.Note
	err := commondb.RetryWithBackoff(ctx, s.log, s.retry, "update_note", func(ctx context.Context) error {
		start := time.Now()
		row := s.pool.QueryRow(
			ctx,
			`UPDATE notes SET title = $2, content = $3, updated_at = $4
			 WHERE id = $1
			 RETURNING `+noteColumns,
			int64(note.ID),
			note.Title,
			note.Content,
			note.UpdatedAt,
		)
		var err error
		updated, err = scanNote(row)
		return commondb.HandleQueryError(err, commonerrors.ErrNoteNotFound, "update note", start)
	})
	if err != nil {
		return domain.Note{}, err
	}
	return updated, nil
}

func (s *PgStore) Delete(ctx context.Context, id domain.ID) error {
	return commondb.RetryWithBackoff(ctx, s.log, s.retry, "delete_note", func(ctx context.Context) error {
		start := time.Now()
		tag, err := s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, int64(id))
		if err := commondb.HandleExecError(err, "delete note", start); err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return commonerrors.ErrNoteNotFound
		}
		return nil
	})
}

func (s *PgStore) Search(ctx context.Context, keyword string, page, size int) ([]domain.Note, int64, error) {
	var (
		notes []domain.Note
		total int64
	)
	err := commondb.RetryWithBackoff(ctx, s.log, s.retry, "search_notes", func(ctx context.Context) error {
		start := time.Now()
		err := s.pool.QueryRow(ctx, `SELECT count(*) FROM notes WHERE `+searchPredicate, keyword).Scan(&total)
		if err != nil {
			return commondb.HandleQueryError(err, nil, "count notes", start)
		}
		offset, ok := domain.PageOffset(page, size)
		if total == 0 || !ok || int64(offset) >= total {
			notes = []domain.Note{}
			return nil
		}

		rows, err := s.pool.Query(
			ctx,
			`SELECT `+noteColumns+` FROM notes WHERE `+searchPredicate+` ORDER BY id LIMIT $2 OFFSET $3`,
			keyword,
			size,
			offset,
		)
		if err != nil {
			return commondb.HandleQueryError(err, nil, "search notes", start)
		}
		notes, err = collectNotes(rows)
		return commondb.HandleQueryError(err, nil, "search notes", start)
	})
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func scanNote(row pgx.Row) (domain.Note, error) {
	var (
		id   int64
		note domain.Note
	)
	if err := row.Scan(&id, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return domain.Note{}, err
	}
	note.ID = domain.ID(id)
	return note, nil
}

func collectNotes(rows pgx.Rows) ([]domain.Note, error) {
	defer rows.Close()

	notes := make([]domain.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}
