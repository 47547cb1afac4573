// Package logger holds the process-wide structured logger used by esi2ddl.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	global *slog.Logger
	debug  bool
	mu     sync.RWMutex
)

// New builds a text logger writing to w at info level, or debug level when
// debugEnabled is set.
func New(w io.Writer, debugEnabled bool) *slog.Logger {
	level := slog.LevelInfo
	if debugEnabled {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup installs a stderr logger as the global logger.
func Setup(debugEnabled bool) *slog.Logger {
	l := New(os.Stderr, debugEnabled)
	SetGlobal(l, debugEnabled)
	return l
}

// SetGlobal sets the global logger and debug state.
func SetGlobal(l *slog.Logger, debugEnabled bool) {
	mu.Lock()
	defer mu.Unlock()
	global = l
	debug = debugEnabled
}

// Get returns the global logger, falling back to an info-level stderr logger
// when none was installed.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		return global
	}
	return New(os.Stderr, debug)
}

// IsDebug reports whether debug logging is enabled.
func IsDebug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debug
}
