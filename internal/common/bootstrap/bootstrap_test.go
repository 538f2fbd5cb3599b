package bootstrap

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	noterepo "github.com/AlibekovAA/dh-notes/internal/note/repository"
	userrepo "github.com/AlibekovAA/dh-notes/internal/user/repository"
)

func TestNewNotesApp_FallsBackToMemoryStores(t *testing.T) {
	t.Setenv("LOG_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	app, err := NewNotesApp(context.Background(), "notes-test")
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &userrepo.MemoryRepository{}, app.UserRepo)
	assert.IsType(t, &noterepo.MemoryStore{}, app.NoteStore)
	assert.Nil(t, app.Pool)
	assert.Nil(t, app.Redis)
}

func TestNewNotesApp_RequiresJWTSecret(t *testing.T) {
	t.Setenv("LOG_DIR", t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := NewNotesApp(context.Background(), "notes-test")
	assert.Error(t, err)
}

func TestNewNotesApp_UnreachableRedisDisablesCache(t *testing.T) {
	t.Setenv("LOG_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://127.0.0.1:1/0")

	app, err := NewNotesApp(context.Background(), "notes-test")
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Redis)
	assert.IsType(t, &noterepo.MemoryStore{}, app.NoteStore)
}
