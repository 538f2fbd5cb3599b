package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/AlibekovAA/dh-notes/internal/common/clock"
	"github.com/AlibekovAA/dh-notes/internal/common/config"
	"github.com/AlibekovAA/dh-notes/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/dh-notes/internal/common/crypto"
	"github.com/AlibekovAA/dh-notes/internal/common/db"
	"github.com/AlibekovAA/dh-notes/internal/common/logger"
	"github.com/AlibekovAA/dh-notes/internal/common/resilience"
	notecache "github.com/AlibekovAA/dh-notes/internal/note/cache"
	noterepo "github.com/AlibekovAA/dh-notes/internal/note/repository"
	userrepo "github.com/AlibekovAA/dh-notes/internal/user/repository"
)

type App struct {
	Log         *logger.Logger
	Config      config.NotesConfig
	Clock       clock.Clock
	IDGenerator commoncrypto.IDGenerator
	Pool        *pgxpool.Pool
	Redis       *redis.Client
	UserRepo    userrepo.Repository
	NoteStore   noterepo.Store
}

// NewNotesApp loads configuration and opens storage. Postgres is used when
// DATABASE_URL is set and in-memory stores otherwise. The Redis note cache is
// layered on top when REDIS_URL is set and reachable.
func NewNotesApp(ctx context.Context, serviceName string) (*App, error) {
	if err := config.LoadEnvFile(); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	log, err := initializeLogger(serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadNotesConfig()
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		return nil, err
	}

	app := &App{
		Log:         log,
		Config:      cfg,
		Clock:       clock.NewRealClock(),
		IDGenerator: commoncrypto.NewUUIDGenerator(),
	}

	if err := app.initializeStores(ctx); err != nil {
		app.Close()
		return nil, err
	}
	app.initializeCache(ctx)

	return app, nil
}

func (a *App) initializeStores(ctx context.Context) error {
	if a.Config.DatabaseURL == "" {
		a.Log.Warn("DATABASE_URL is not set, using in-memory stores")
		a.UserRepo = userrepo.NewMemoryRepository(a.IDGenerator, a.Clock)
		a.NoteStore = noterepo.NewMemoryStore()
		return nil
	}

	if a.Config.RunMigrations {
		if err := db.RunMigrations(ctx, a.Log, a.Config.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	pool, err := db.NewPool(ctx, a.Log, a.Config.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}

	a.Pool = pool
	a.UserRepo = userrepo.NewPgRepository(pool, a.Log)
	a.NoteStore = noterepo.NewPgStore(pool, a.Log)
	return nil
}

func (a *App) initializeCache(ctx context.Context) {
	if a.Config.RedisURL == "" {
		return
	}

	client, err := notecache.NewRedisClient(ctx, a.Config.RedisURL)
	if err != nil {
		a.Log.Warnf("note cache disabled: %v", err)
		return
	}

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  constants.NoteCacheBreakerThreshold,
		Timeout:    constants.NoteCacheCallTimeout,
		ResetAfter: constants.NoteCacheBreakerResetAfter,
		Name:       "note_cache",
		Clock:      a.Clock,
		Logger:     a.Log,
	})

	a.Redis = client
	a.NoteStore = notecache.NewCachedStore(a.NoteStore, notecache.NewRedisCache(client, a.Config.NoteCacheTTL), breaker, a.Log)
	a.Log.Infof("note cache enabled (ttl=%v)", a.Config.NoteCacheTTL)
}

// Close releases the Redis client and the database pool if they were opened.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warnf("failed to close redis client: %v", err)
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}

func initializeLogger(serviceName string) (*logger.Logger, error) {
	return logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
}
