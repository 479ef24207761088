// Package logger provides a simple wrapper around slog for structured logging.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the global logger instance.
var Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// RedirectToFile points the global logger at a log file. The TUI owns the
// terminal, so anything noisier than startup errors goes to disk. With no
// path configured, logs are discarded instead of scribbling over the screen.
func RedirectToFile(path string) error {
	if path == "" {
		Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	Logger = slog.New(slog.NewTextHandler(f, nil))
	return nil
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}
