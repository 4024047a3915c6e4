package logx

import (
	"log/slog"
	"os"
)

// Logger is the global logger instance
var Logger *slog.Logger

// Init initializes the global logger. JSON output is used when
// production is true, text output otherwise.
func Init(production bool) {
	InitWithLevel(production, slog.LevelInfo)
}

// InitWithLevel initializes the logger with a specific log level
func InitWithLevel(production bool, level slog.Level) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if production {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// Info logs an info message
func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

// WithSymbol returns a logger with symbol field
func WithSymbol(symbol string) *slog.Logger {
	return get().With("symbol", symbol)
}

// WithComponent returns a logger with component field
func WithComponent(name string) *slog.Logger {
	return get().With("component", name)
}

func get() *slog.Logger {
	if Logger == nil {
		Init(false)
	}
	return Logger
}
