// Package logging sets up the application logger.
//
// The interactive UI owns the terminal, so logs go to a size-rotated
// file rather than stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configure New.
type Options struct {
	// Path is the log file. Empty logs to stderr.
	Path string

	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string

	// MaxSizeMB is the size at which the file rotates.
	MaxSizeMB int

	// MaxBackups is how many rotated files to keep.
	MaxBackups int
}

// New returns a logger and the closer for its output.
func New(opts Options) (*slog.Logger, io.Closer) {
	var out io.WriteCloser = nopCloser{os.Stderr}
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err == nil {
			maxSize := opts.MaxSizeMB
			if maxSize <= 0 {
				maxSize = 10
			}
			backups := opts.MaxBackups
			if backups <= 0 {
				backups = 3
			}
			out = &lumberjack.Logger{
				Filename:   opts.Path,
				MaxSize:    maxSize,
				MaxBackups: backups,
				Compress:   true,
			}
		}
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	return slog.New(handler), out
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
