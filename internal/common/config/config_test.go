package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadNotesConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("NOTES_HTTP_PORT", "9090")

	cfg, err := LoadNotesConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.RunMigrations)
}

func TestLoadNotesConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadNotesConfig()
	require.Error(t, err)
	assert.ErrorIs(t, err, commonerrors.ErrMissingRequiredEnv)
}

func TestLoadNotesConfig_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := LoadNotesConfig()
	require.Error(t, err)
	assert.ErrorIs(t, err, commonerrors.ErrInvalidJWTSecret)
}

func TestLoadNotesConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("TOKEN_TTL", "forever")
	t.Setenv("BCRYPT_COST", "lots")
	t.Setenv("DB_MIGRATE", "maybe")

	cfg, err := LoadNotesConfig()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.RunMigrations)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.env")
	require.NoError(t, os.WriteFile(path, []byte("NOTES_TEST_FROM_FILE=yes\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("NOTES_TEST_FROM_FILE") })

	require.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "yes", os.Getenv("NOTES_TEST_FROM_FILE"))
}
