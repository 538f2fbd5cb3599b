package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	commondb "github.com/AlibekovAA/dh-notes/internal/common/db"
	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
	"github.com/AlibekovAA/dh-notes/internal/common/logger"
	"github.com/AlibekovAA/dh-notes/internal/user/domain"
)

// Repository is the credential store. Save assigns the identifier and fails with
// ErrUsernameAlreadyExists on a username collision. FindByUsername returns
// ErrUserNotFound when no such user exists.
type Repository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
}

type PgRepository struct {
	pool  *pgxpool.Pool
	log   *logger.Logger
	retry commondb.RetryConfig
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log, retry: commondb.DefaultRetryConfig}
}

func (r *PgRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	var saved domain.User
	err := commondb.RetryWithBackoff(ctx, r.log, r.retry, "save_user", func(ctx context.Context) error {
		start := time.Now()
		row := r.pool.QueryRow(
			ctx,
			`INSERT INTO users (username, password_hash, created_at)
			 VALUES ($1, $2, $3)
			 RETURNING id::text, username, password_hash, created_at`,
			user.Username,
			user.PasswordHash,
			user.CreatedAt,
		)
		err := commondb.HandleExecError(
			row.Scan(&saved.ID, &saved.Username, &saved.PasswordHash, &saved.CreatedAt),
			"save user",
			start,
		)
		if commondb.IsUniqueViolation(err) {
			return commonerrors.ErrUsernameAlreadyExists.WithCause(err)
		}
		return err
	})
	if err != nil {
		return domain.User{}, err
	}
	return saved, nil
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	var user domain.User
	err := commondb.RetryWithBackoff(ctx, r.log, r.retry, "find_user", func(ctx context.Context) error {
		start := time.Now()
		row := r.pool.QueryRow(
			ctx,
			`SELECT id::text, username, password_hash, created_at FROM users WHERE username = $1`,
			username,
		)
		err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
		return commondb.HandleQueryError(err, commonerrors.ErrUserNotFound, "find user by username", start)
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}
