// Package logger provides the process-wide leveled logger. All packages log
// through the package-level functions so call sites stay terse.
package logger

import (
	"io"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// LogLevel represents log severity levels.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu  sync.RWMutex
	log = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           charmlog.InfoLevel,
	})
)

// Setup reconfigures the process logger. JSON output is used by the server
// binary; the plain text formatter is kept for CLI and tests.
func Setup(level LogLevel, out io.Writer, json bool) {
	mu.Lock()
	defer mu.Unlock()
	log = charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           toCharmLevel(level),
	})
	if json {
		log.SetFormatter(charmlog.JSONFormatter)
	}
}

// SetLevel sets the minimum log level.
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	log.SetLevel(toCharmLevel(level))
}

// Debugf logs a debug message.
func Debugf(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debugf(format, args...)
}

// Infof logs an info message.
func Infof(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Infof(format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Warnf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Errorf(format, args...)
}

func toCharmLevel(level LogLevel) charmlog.Level {
	switch level {
	case LevelDebug:
		return charmlog.DebugLevel
	case LevelWarn:
		return charmlog.WarnLevel
	case LevelError:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// ParseLevel maps a config string to a LogLevel, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
