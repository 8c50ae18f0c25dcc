// internal/util/logger.go
package util

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	logger     *slog.Logger
	loggerOnce sync.Once
	logLevel   = new(slog.LevelVar)
)

// InitLogger initializes the global structured logger at the given level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
// Later calls only change the level.
func InitLogger(level string) {
	logLevel.Set(ParseLevel(level))
	loggerOnce.Do(newLogger)
}

func newLogger() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// GetLogger returns the global logger, initializing it at info level if needed.
func GetLogger() *slog.Logger {
	loggerOnce.Do(newLogger)
	return logger
}

// ParseLevel maps a textual level to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
