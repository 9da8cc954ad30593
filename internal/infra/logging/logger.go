// Package logging provides file-based logging for chattasks.
// It outputs logs to both a global log file (<dir>/logs/chattasks.log)
// and space-specific log files (<dir>/logs/space-<id>.log).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/runoshun/chat-tasks/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes leveled entries to the global log and per-space logs.
// Fields are ordered to minimize memory padding.
type Logger struct {
	globalFile *os.File
	spaceFiles map[string]*os.File
	now        func() time.Time
	dir        string
	runID      string
	mu         sync.Mutex
	level      slog.Level
}

// New creates a new Logger that writes under dir/logs.
// If dir is empty, logging is disabled (returns a no-op logger).
func New(dir string, level slog.Level) *Logger {
	return &Logger{
		dir:        dir,
		level:      level,
		now:        time.Now,
		spaceFiles: make(map[string]*os.File),
	}
}

// WithRunID tags every subsequent entry with the given run id.
func (l *Logger) WithRunID(runID string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runID = runID
	return l
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) ensureLogsDir() error {
	return os.MkdirAll(filepath.Join(l.dir, domain.LogsDirName), 0o750)
}

// openLog opens a log file for appending. Callers hold l.mu.
func (l *Logger) openLog(path string) (*os.File, error) {
	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func (l *Logger) globalWriter() (*os.File, error) {
	if l.globalFile != nil {
		return l.globalFile, nil
	}
	f, err := l.openLog(domain.GlobalLogPath(l.dir))
	if err != nil {
		return nil, err
	}
	l.globalFile = f
	return f, nil
}

func (l *Logger) spaceWriter(space string) (*os.File, error) {
	if f, ok := l.spaceFiles[space]; ok {
		return f, nil
	}
	f, err := l.openLog(domain.SpaceLogPath(l.dir, space))
	if err != nil {
		return nil, err
	}
	l.spaceFiles[space] = f
	return f, nil
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for space, f := range l.spaceFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.spaceFiles, space)
	}
	return lastErr
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [space-AAAA] [category] message
func formatLog(t time.Time, level slog.Level, space, category, msg, runID string) string {
	scope := "global"
	if space != "" {
		scope = "space-" + domain.SpaceShortID(space)
	}
	if runID != "" {
		msg += " run=" + runID
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		scope,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// log writes an entry to the global log, and to the space log when space is set.
func (l *Logger) log(level slog.Level, space, category, msg string) {
	if l.dir == "" || level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := formatLog(l.now(), level, space, category, msg, l.runID)

	if gf, err := l.globalWriter(); err == nil {
		_, _ = io.WriteString(gf, entry)
	}
	if space != "" {
		if sf, err := l.spaceWriter(space); err == nil {
			_, _ = io.WriteString(sf, entry)
		}
	}
}

// Info logs an info message.
func (l *Logger) Info(space, category, msg string) {
	l.log(slog.LevelInfo, space, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(space, category, msg string) {
	l.log(slog.LevelDebug, space, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(space, category, msg string) {
	l.log(slog.LevelWarn, space, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(space, category, msg string) {
	l.log(slog.LevelError, space, category, msg)
}
