package db

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/dh-notes/internal/common/logger"
)

var errNotFound = errors.New("not found")

func testLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "test", "error")
}

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2}
}

func TestHandleQueryError(t *testing.T) {
	start := time.Now()

	assert.NoError(t, HandleQueryError(nil, errNotFound, "get note", start))
	assert.Equal(t, errNotFound, HandleQueryError(pgx.ErrNoRows, errNotFound, "get note", start))

	cause := errors.New("boom")
	err := HandleQueryError(cause, errNotFound, "get note", start)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to get note")
}

func TestHandleExecError_NoRowsIsNotMapped(t *testing.T) {
	err := HandleExecError(pgx.ErrNoRows, "delete note", time.Now())
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("x")))
}

func TestTableFromOperation(t *testing.T) {
	assert.Equal(t, "notes", tableFromOperation("search notes"))
	assert.Equal(t, "users", tableFromOperation("find user by username"))
	assert.Equal(t, "unknown", tableFromOperation("ping"))
}

func TestRetryWithBackoff_RetriesTransientErrors(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), testLogger(), fastRetry(), "test", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: "40001"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_StopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := &pgconn.PgError{Code: "23505"}
	err := RetryWithBackoff(context.Background(), testLogger(), fastRetry(), "test", func(ctx context.Context) error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_GivesUp(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), testLogger(), fastRetry(), "test", func(ctx context.Context) error {
		calls++
		return &pgconn.PgError{Code: "08006"}
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}
