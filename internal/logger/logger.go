package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type contextKey string

const loggerKey contextKey = "logger"

// ParseLevel converts a LOG_LEVEL value into a slog.Level, defaulting to Info
func ParseLevel(levelStr string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New builds a JSON structured logger writing to w
// Times are formatted as RFC3339 for readability
func New(w io.Writer, levelStr string) *slog.Logger {
	level, ok := ParseLevel(levelStr)

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}

	l := slog.New(slog.NewJSONHandler(w, opts))
	if !ok {
		l.Warn("Invalid LOG_LEVEL specified, defaulting to INFO", "configuredLevel", levelStr)
	}
	return l
}

// Init builds the process logger on stderr and installs it as the slog default
func Init(levelStr string) *slog.Logger {
	l := New(os.Stderr, levelStr)
	slog.SetDefault(l)
	return l
}

// Discard returns a logger that drops everything, for tests and quiet CLI runs
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FromContext retrieves the logger stored in ctx, or the slog default
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// ToContext embeds a logger into ctx
func ToContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}
