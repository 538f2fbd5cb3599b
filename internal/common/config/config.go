package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/AlibekovAA/dh-notes/internal/common/constants"
	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
)

type NotesConfig struct {
	HTTPPort       string
	DatabaseURL    string
	RunMigrations  bool
	RedisURL       string
	NoteCacheTTL   time.Duration
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	RequestTimeout time.Duration
	LogDir         string
	LogLevel       string
}

// LoadEnvFile loads key=value pairs from the given files into the process
// environment. Variables that are already set win. Missing files are ignored.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

func LoadNotesConfig() (NotesConfig, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return NotesConfig{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return NotesConfig{}, err
	}

	return NotesConfig{
		HTTPPort:       getEnv("NOTES_HTTP_PORT", constants.DefaultNotesHTTPPort),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RunMigrations:  getBoolEnv("DB_MIGRATE", true),
		RedisURL:       getEnv("REDIS_URL", ""),
		NoteCacheTTL:   getDurationEnv("REDIS_CACHE_TTL", constants.DefaultNoteCacheTTL),
		JWTSecret:      jwtSecret,
		TokenTTL:       getDurationEnv("TOKEN_TTL", constants.DefaultTokenTTL),
		BcryptCost:     getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
		RequestTimeout: getDurationEnv("NOTES_REQUEST_TIMEOUT", constants.DefaultNotesRequestTimeout),
		LogDir:         getEnv("LOG_DIR", ""),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
	}, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return commonerrors.ErrInvalidJWTSecret.WithCause(fmt.Errorf("got %d bytes", len(secret)))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", commonerrors.ErrMissingRequiredEnv.WithMessage("missing required environment variable: " + key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
