package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/AlibekovAA/dh-notes/internal/common/constants"
)

const defaultLogDir = "/var/log/dh-notes"

// callerSkip is the frame distance from write to the code that logged:
// write, the exported method, then the caller.
const callerSkip = 2

type Fields map[string]any

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	CRITICAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	default:
		return "CRITICAL"
	}
}

// Logger writes one line per event:
// [LEVEL] [service] [k=v ...] file:line message
type Logger struct {
	level   LogLevel
	service string
	out     *log.Logger
}

// New logs to stdout and to a rotating <service>.log file under logDir.
func New(logDir, serviceName, level string) (*Logger, error) {
	if logDir == "" {
		logDir = defaultLogDir
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, serviceName+".log"),
		MaxSize:    constants.LoggerMaxSize,
		MaxBackups: constants.LoggerMaxBackups,
		MaxAge:     constants.LoggerMaxAge,
		Compress:   true,
	}
	return NewWithWriter(io.MultiWriter(os.Stdout, rotating), serviceName, level), nil
}

// NewWithWriter builds a logger without file rotation, used by tests and tools.
func NewWithWriter(w io.Writer, serviceName, level string) *Logger {
	return &Logger{
		level:   parseLevel(level),
		service: serviceName,
		out:     log.New(w, "", log.LstdFlags),
	}
}

// Enabled reports whether events at level are written. Callers use it to skip
// building expensive debug fields.
func (l *Logger) Enabled(level LogLevel) bool {
	return level >= l.level
}

func (l *Logger) write(level LogLevel, ctx context.Context, fields Fields, msg string) {
	if !l.Enabled(level) {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", level)
	if l.service != "" {
		fmt.Fprintf(&b, " [%s]", l.service)
	}
	if kv := formatFields(ctx, fields); kv != "" {
		fmt.Fprintf(&b, " [%s]", kv)
	}

	file, line := "unknown", 0
	if _, path, n, ok := runtime.Caller(callerSkip); ok {
		file, line = filepath.Base(path), n
	}
	fmt.Fprintf(&b, " %s:%d %s", file, line, msg)

	_ = l.out.Output(0, b.String())
}

// formatFields renders the trace id from ctx first, then fields sorted by key.
func formatFields(ctx context.Context, fields Fields) string {
	parts := make([]string, 0, len(fields)+1)
	if ctx != nil {
		if traceID, ok := ctx.Value(constants.TraceIDKey).(string); ok && traceID != "" {
			if _, set := fields["trace_id"]; !set {
				parts = append(parts, "trace_id="+traceID)
			}
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}

func (l *Logger) Debugf(format string, args ...any) {
	l.write(DEBUG, nil, nil, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	l.write(INFO, nil, nil, fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(msg string) { l.write(WARNING, nil, nil, msg) }

func (l *Logger) Warnf(format string, args ...any) {
	l.write(WARNING, nil, nil, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.write(ERROR, nil, nil, fmt.Sprintf(format, args...))
}

// Fatalf logs at CRITICAL and exits. Only startup code that cannot continue
// should call it.
func (l *Logger) Fatalf(format string, args ...any) {
	l.write(CRITICAL, nil, nil, fmt.Sprintf(format, args...))
	os.Exit(1)
}

// WithFields returns an entry that adds fields and the request trace id to
// every line it writes.
func (l *Logger) WithFields(ctx context.Context, fields Fields) *Entry {
	return &Entry{logger: l, ctx: ctx, fields: fields}
}

type Entry struct {
	logger *Logger
	ctx    context.Context
	fields Fields
}

func (e *Entry) Debug(msg string) { e.logger.write(DEBUG, e.ctx, e.fields, msg) }
func (e *Entry) Info(msg string)  { e.logger.write(INFO, e.ctx, e.fields, msg) }
func (e *Entry) Warn(msg string)  { e.logger.write(WARNING, e.ctx, e.fields, msg) }

func (e *Entry) Debugf(format string, args ...any) {
	e.logger.write(DEBUG, e.ctx, e.fields, fmt.Sprintf(format, args...))
}

func (e *Entry) Warnf(format string, args ...any) {
	e.logger.write(WARNING, e.ctx, e.fields, fmt.Sprintf(format, args...))
}

func (e *Entry) Errorf(format string, args ...any) {
	e.logger.write(ERROR, e.ctx, e.fields, fmt.Sprintf(format, args...))
}

func (e *Entry) Criticalf(format string, args ...any) {
	e.logger.write(CRITICAL, e.ctx, e.fields, fmt.Sprintf(format, args...))
}

func parseLevel(value string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "DEBUG":
		return DEBUG
	case "WARNING", "WARN":
		return WARNING
	case "ERROR":
		return ERROR
	case "CRITICAL":
		return CRITICAL
	default:
		return INFO
	}
}
