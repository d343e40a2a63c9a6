// Package ctxlog carries a structured logger in a context.Context.
//
// Logs go to stderr so they never mix with the report stream on stdout.
// The level comes from ACE_LOG_LEVEL and may be one of "DEBUG", "INFO",
// "WARN" or "ERROR". Anything else falls back to "WARN".
package ctxlog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel is the environment variable read for the initial log level.
const EnvLogLevel = "ACE_LOG_LEVEL"

type loggerKey struct{}

// LevelVar controls the level of DefaultLogger and of loggers built with NewLogger.
var LevelVar = &slog.LevelVar{}

// DefaultLogger is used when no logger has been stored in the context.
var DefaultLogger = NewLogger(os.Stderr)

func init() {
	LevelVar.Set(levelFromString(os.Getenv(EnvLogLevel)))
}

// NewLogger returns a text logger writing to w at the shared LevelVar.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: LevelVar,
	}))
}

// New returns a copy of ctx carrying logger.
// If logger is nil, DefaultLogger is stored instead.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger from the context, or DefaultLogger if not found.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}

	return logger
}

func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Debug(msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Info(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Warn(msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Error(msg, args...)
}

func levelFromString(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
