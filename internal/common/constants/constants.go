package constants

import "time"

const (
	RoleUser = "ROLE_USER"

	UsernameMaxLength    = 64
	PasswordMaxBytes     = 72
	JWTSecretMinLength   = 32
	NoteTitleMaxLength   = 100
	NoteContentMaxLength = 1000

	DefaultSearchPage     = 0
	DefaultSearchPageSize = 10
	DefaultMaxRequestSize = 1 << 20

	DefaultTokenTTL   = 1 * time.Hour
	DefaultBcryptCost = 12

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBQueryTimeout        = 30 * time.Second

	DefaultNoteCacheTTL = 5 * time.Minute

	NoteCacheCallTimeout       = 200 * time.Millisecond
	NoteCacheBreakerThreshold  = 5
	NoteCacheBreakerResetAfter = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultNotesHTTPPort       = "8080"
	DefaultNotesRequestTimeout = 5 * time.Second

	TimestampLayout = "2006-01-02 15:04:05"

	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024
	WebSocketSendBufSize     = 256
	WebSocketWriteWait       = 10 * time.Second
	WebSocketPongWait        = 60 * time.Second
	WebSocketPingPeriod      = (WebSocketPongWait * 9) / 10
	WebSocketMaxMsgSize      = 4096

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
