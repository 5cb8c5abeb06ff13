// Package logger provides the process-wide structured logger used by both
// the API server and the ingestion worker. It wraps charmbracelet/log with
// key-value pairs so call sites stay uniform across the codebase.
package logger

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu       sync.RWMutex
	instance *log.Logger
)

// Options configures the process logger.
type Options struct {
	Debug  bool
	Prefix string
}

// Init configures the global logger. It must be called once at process
// start before any logging functions are used; logging before Init is a
// no-op.
func Init(opts Options) {
	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}

	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          opts.Prefix,
	})

	mu.Lock()
	instance = l
	mu.Unlock()
}

func get() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// Debug writes a message at DEBUG level.
func Debug(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Debug(message, keyvals...)
	}
}

// Info writes a message at INFO level.
func Info(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Info(message, keyvals...)
	}
}

// Warn writes a message at WARN level.
func Warn(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Warn(message, keyvals...)
	}
}

// Error writes a message at ERROR level.
func Error(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Error(message, keyvals...)
	}
}

// Fatal writes a message at FATAL level and terminates the program.
func Fatal(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Fatal(message, keyvals...)
		return
	}
	os.Exit(1)
}
