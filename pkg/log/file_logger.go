package log

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileLogger writes capture events to a file in CBOR format.
// It is safe for concurrent use from multiple goroutines.
type FileLogger struct {
	out     io.WriteCloser
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewFileLogger creates a FileLogger that appends to the file at path,
// creating it with permissions 0644 if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return newFileLogger(f), nil
}

// RotateConfig configures a size-rotated capture file.
type RotateConfig struct {
	// Path of the active file. Rotated files are written next to it with a
	// timestamp suffix.
	Path string

	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept (0 keeps all).
	MaxBackups int

	// Compress gzips rotated files.
	Compress bool
}

// NewRotatingFileLogger creates a FileLogger that rotates its file by size.
// Every event is written with a single write, so each rotated file is a
// complete event stream.
func NewRotatingFileLogger(cfg RotateConfig) (*FileLogger, error) {
	if cfg.Path == "" {
		return nil, errors.New("log: rotate config missing path")
	}
	if cfg.MaxSizeMB <= 0 {
		return nil, errors.New("log: rotate config needs a positive max size")
	}
	return newFileLogger(&lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}), nil
}

func newFileLogger(out io.WriteCloser) *FileLogger {
	return &FileLogger{
		out:     out,
		encoder: NewEncoder(out),
	}
}

// Log writes an event to the log file.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	// Encoding errors are dropped; capture must not disrupt packing.
	_ = l.encoder.Encode(event)
}

// Close closes the log file. It is safe to call Close multiple times.
// Subsequent Log calls are silently ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true
	return l.out.Close()
}

// Compile-time interface satisfaction check.
var _ Logger = (*FileLogger)(nil)
