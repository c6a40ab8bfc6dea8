// Package log provides structured logging for impexls.
// Stdout carries the language server protocol, so entries always go to a file
// (tea.LogToFile) and logging stays off unless --debug or IMPEXLS_DEBUG is set.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/impexls/internal/pubsub"
)

// Environment variables consulted by InitFromEnv.
const (
	EnvDebug = "IMPEXLS_DEBUG"
	EnvPath  = "IMPEXLS_LOG"
	EnvLevel = "IMPEXLS_LOG_LEVEL"

	DefaultPath = "impexls.log"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages.
type Category string

const (
	CatLSP       Category = "lsp"       // Transport, dispatch and protocol handlers
	CatIndex     Category = "index"     // Line index rebuilds
	CatHighlight Category = "highlight" // Field highlight requests
	CatConfig    Category = "config"    // Configuration loading/reloading
	CatWatcher   Category = "watcher"   // File watcher events
	CatCache     Category = "cache"     // Document store operations
	CatTrace     Category = "trace"     // Tracing provider lifecycle
	CatUI        Category = "ui"        // Playground updates
)

// Logger provides structured logging.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	writer   io.Writer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
}

var (
	defaultLogger *Logger
	mu            sync.Mutex
)

// InitWithTeaLog opens path through tea.LogToFile and installs it as the global logger.
// Returns a cleanup function that closes the file.
func InitWithTeaLog(path string, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	install(&Logger{
		file:     f,
		writer:   f,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[string](),
	})

	return func() { _ = f.Close() }, nil
}

// InitFromEnv enables logging when debug is true or IMPEXLS_DEBUG is set.
// The log path comes from IMPEXLS_LOG and defaults to impexls.log; the
// minimum level comes from IMPEXLS_LOG_LEVEL.
// The returned cleanup is never nil.
func InitFromEnv(debug bool, prefix string) (func(), error) {
	if !debug && os.Getenv(EnvDebug) == "" {
		return func() {}, nil
	}
	path := os.Getenv(EnvPath)
	if path == "" {
		path = DefaultPath
	}
	cleanup, err := InitWithTeaLog(path, prefix)
	if err != nil {
		return func() {}, err
	}
	if lvl := os.Getenv(EnvLevel); lvl != "" {
		SetMinLevel(ParseLevel(lvl))
	}
	Info(CatConfig, "logging enabled", "path", path)
	return cleanup, nil
}

// InitWriter installs a logger writing to w. Tests use it to capture output.
func InitWriter(w io.Writer) {
	install(&Logger{
		writer:   w,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[string](),
	})
}

// Reset drops the global logger, disabling logging.
func Reset() {
	install(nil)
}

func install(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger != nil && defaultLogger.broker != nil {
		defaultLogger.broker.Close()
	}
	defaultLogger = l
}

func current() *Logger {
	mu.Lock()
	defer mu.Unlock()
	return defaultLogger
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.enabled = enabled
		l.mu.Unlock()
	}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

// ParseLevel maps a config string to a Level. Unknown values map to LevelDebug.
func ParseLevel(s string) Level {
	switch s {
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN", "warning":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelDebug
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	write(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	write(LevelError, cat, msg, fields...)
}

func write(level Level, cat Category, msg string, fields ...any) {
	l := current()
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel {
		return
	}

	// Format: 2025-12-06T10:45:00 [ERROR] [lsp] message key=value key2=value2
	timestamp := time.Now().Format("2006-01-02T15:04:05")
	entry := fmt.Sprintf("%s [%s] [%s] %s", timestamp, level, cat, msg)

	for i := 0; i+1 < len(fields); i += 2 {
		entry += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		entry += fmt.Sprintf(" %v=<missing>", fields[len(fields)-1])
	}
	entry += "\n"

	if l.writer != nil {
		_, _ = l.writer.Write([]byte(entry))
	}

	if l.broker != nil {
		l.broker.Publish(pubsub.CreatedEvent, entry)
	}
}

// LogEvent is a pubsub event containing a log entry.
type LogEvent = pubsub.Event[string]

// LogListener wraps a continuous listener for log events.
type LogListener = pubsub.ContinuousListener[string]

// NewListener creates a new log event listener.
// The listener is automatically cleaned up when the context is cancelled.
func NewListener(ctx context.Context) *LogListener {
	l := current()
	if l == nil || l.broker == nil {
		return nil
	}
	return pubsub.NewContinuousListener(ctx, l.broker)
}
