// ABOUTME: slog setup for the CLI and the TUI debug log file
// ABOUTME: The TUI logs to a file so output never interferes with the terminal display

package debuglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// FileName is the debug log created inside the config directory.
const FileName = "debug.log"

// Path returns override when set, otherwise <configDir>/debug.log.
// An empty result disables file logging.
func Path(configDir, override string) string {
	if override != "" {
		return override
	}
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, FileName)
}

// New builds a text logger writing to w, or a JSON logger when jsonOut is set.
func New(w io.Writer, level slog.Level, jsonOut bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if jsonOut {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// File is an open debug log.
type File struct {
	f      *os.File
	Logger *slog.Logger
}

// Open appends to the log at path, creating parent directories with 0700 and
// the file with 0600. An empty path returns a logger that discards everything.
func Open(path string, level slog.Level) (*File, error) {
	if path == "" {
		return &File{Logger: slog.New(slog.DiscardHandler)}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	return &File{f: f, Logger: New(f, level, false)}, nil
}

// Close closes the log file. Safe on a discarding log.
func (l *File) Close() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}
