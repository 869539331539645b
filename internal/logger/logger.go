package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	// Default logger instance
	Log *slog.Logger
)

func init() {
	// Initialize with default logger (info level)
	SetupLogger(false)
}

// SetupLogger configures the global logger on stderr.
// verbose=true enables debug level, false uses info level
func SetupLogger(verbose bool) {
	SetupLoggerTo(os.Stderr, verbose)
}

// SetupLoggerTo is SetupLogger with an explicit destination.
func SetupLoggerTo(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// EXTBUILD_LOG_LEVEL overrides the flag
	if envLevel := os.Getenv("EXTBUILD_LOG_LEVEL"); envLevel != "" {
		switch strings.ToLower(envLevel) {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn", "warning":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(w, opts)
	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}
