// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/driftbuild/drift/internal/core/domain"
	"github.com/driftbuild/drift/internal/core/ports"
	"go.trai.ch/zerr"
)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	mu     sync.RWMutex
	logger *slog.Logger
	base   io.Writer
	file   io.Closer
}

// New creates a Logger writing to stderr.
func New() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &Logger{
		logger: slog.New(handler),
		base:   os.Stderr,
	}
}

// AttachFile additionally mirrors all log output to the workspace log file,
// appending to any existing content. Called once the workspace layout is
// known.
func (l *Logger) AttachFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, domain.FilePerm) //nolint:gosec // workspace-internal path
	if err != nil {
		return zerr.Wrap(err, "failed to open log file")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	handler := slog.NewTextHandler(io.MultiWriter(l.base, f), &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	if l.file != nil {
		_ = l.file.Close()
	}
	l.file = f
	l.logger = slog.New(handler)
	return nil
}

// SetOutput replaces the logger's output destination. Used by tests.
func (l *Logger) SetOutput(w io.Writer) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	l.mu.Lock()
	defer l.mu.Unlock()
	l.base = w
	l.logger = slog.New(handler)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error("operation failed", "error", err)
}

var _ ports.Logger = (*Logger)(nil)
