// Package debug provides the process-wide structured logger, built on log/slog.
// Until Configure is called every record is discarded.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Options controls where and how records are written.
type Options struct {
	// Enabled turns logging on. When false all records are discarded.
	Enabled bool
	// Output receives records. Defaults to os.Stderr.
	Output io.Writer
	// JSON selects the JSON handler instead of the text handler.
	JSON bool
	// Level is the minimum level written. Defaults to slog.LevelDebug.
	Level slog.Leveler
}

var (
	mu      sync.RWMutex
	logger  = slog.New(slog.DiscardHandler)
	enabled bool
)

// Configure replaces the global logger.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	enabled = opts.Enabled
	if !opts.Enabled {
		logger = slog.New(slog.DiscardHandler)
		return
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelDebug
	}

	hopts := &slog.HandlerOptions{Level: level}
	if opts.JSON {
		logger = slog.New(slog.NewJSONHandler(out, hopts))
	} else {
		logger = slog.New(slog.NewTextHandler(out, hopts))
	}
}

// Init enables or disables debug logging to stderr.
func Init(enable bool) {
	Configure(Options{Enabled: enable})
}

// Enabled reports whether logging is on.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }

// Info logs at info level.
func Info(msg string, args ...any) { Logger().Info(msg, args...) }

// Warn logs at warn level.
func Warn(msg string, args ...any) { Logger().Warn(msg, args...) }

// Error logs at error level.
func Error(msg string, args ...any) { Logger().Error(msg, args...) }

// With returns the current logger with args attached.
func With(args ...any) *slog.Logger { return Logger().With(args...) }
