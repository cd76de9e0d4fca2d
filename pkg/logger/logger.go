// Package logger is the process-wide structured logger. The terminal belongs
// to the UI, so output only ever goes to a rotating file.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// L is the global logger instance. It discards everything until Init enables it.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// FileName is the log file created inside Options.LogDir.
const FileName = "tv.log"

var (
	mu   sync.Mutex
	sink *lumberjack.Logger
)

// Options configures the logger initialization.
type Options struct {
	Enabled    bool       // If false, all logging is discarded
	LogDir     string     // Directory for the log file. Default: .tv
	Level      slog.Level // Minimum level
	MaxSizeMB  int        // Rotate after this many megabytes. Default: 10
	MaxBackups int        // Rotated files to keep. Default: 3
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// Init configures logging. Call from main() before any log calls.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()
	closeSink()

	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	dir := opts.LogDir
	if dir == "" {
		dir = ".tv"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	backups := opts.MaxBackups
	if backups <= 0 {
		backups = 3
	}
	sink = &lumberjack.Logger{
		Filename:   filepath.Join(dir, FileName),
		MaxSize:    maxSize, // megabytes
		MaxBackups: backups,
		MaxAge:     28, // days
		Compress:   true,
	}
	L = slog.New(slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: opts.Level}))
	return nil
}

// Close flushes and closes the log file, and goes back to discarding.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	err := closeSink()
	L = slog.New(slog.NewTextHandler(io.Discard, nil))
	return err
}

func closeSink() error {
	if sink == nil {
		return nil
	}
	err := sink.Close()
	sink = nil
	return err
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
