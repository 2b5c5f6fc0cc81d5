package logger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"
)

// Frames between caller and record: runtime.Callers, emit, Logger method
const callerSkip = 3

type slogLogger struct {
	handler slog.Handler
}

func (l *slogLogger) emit(level slog.Level, msg string, args []any) {
	ctx := context.Background()
	if !l.handler.Enabled(ctx, level) {
		return
	}

	// Report the caller of Debug/Info/..., not this file
	var pcs [1]uintptr
	runtime.Callers(callerSkip, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.handler.Handle(ctx, r)
}

func (l *slogLogger) Debug(msg string, args ...any) { l.emit(slog.LevelDebug, msg, args) }
func (l *slogLogger) Info(msg string, args ...any)  { l.emit(slog.LevelInfo, msg, args) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.emit(slog.LevelWarn, msg, args) }
func (l *slogLogger) Error(msg string, args ...any) { l.emit(slog.LevelError, msg, args) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{handler: slog.New(l.handler).With(args...).Handler()}
}

func (l *slogLogger) WithGroup(name string) Logger {
	return &slogLogger{handler: l.handler.WithGroup(name)}
}

// parseLevel accepts level names in any case (debug, INFO, ...)
func parseLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if level == "" {
		return lvl, errors.New("log level must not be empty")
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return lvl, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	return lvl, nil
}

// trimSource keeps only the file name in the source attribute
func trimSource(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}
	if src, ok := a.Value.Any().(*slog.Source); ok {
		src.File = filepath.Base(src.File)
	}
	return a
}
