// Package log provides the ai-commit debug log. Messages written before a
// destination is chosen are buffered and flushed once SetFile is called.
package log

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// DebugLogger handles debug logging to file and/or buffering.
// It implements io.Writer to be compatible with standard log.Logger.
type DebugLogger struct {
	mu      sync.Mutex
	out     io.Writer
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	globalDebugLogger = &DebugLogger{}
	stdLogger         = log.New(globalDebugLogger, "ai-commit ", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer.
func (l *DebugLogger) Write(p []byte) (n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.discard {
		return len(p), nil
	}

	if l.out != nil {
		n, err = l.out.Write(p)
		if l.file != nil {
			_ = l.file.Sync()
		}
		return n, err
	}

	// p may be reused by the caller
	b := make([]byte, len(p))
	copy(b, p)
	l.buffer = append(l.buffer, b...)
	return len(p), nil
}

// SetFile directs the debug log to path, creating the file and its parent
// directory when needed. An empty path discards buffered and future messages.
func SetFile(path string) error {
	if path == "" {
		return SetOutput(nil)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		_ = SetOutput(nil)
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		_ = SetOutput(nil)
		return err
	}

	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()
	globalDebugLogger.closeLocked()
	globalDebugLogger.file = f
	globalDebugLogger.attachLocked(f)
	return nil
}

// SetOutput directs the debug log to w. A nil writer discards everything.
func SetOutput(w io.Writer) error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	globalDebugLogger.closeLocked()
	if w == nil {
		globalDebugLogger.out = nil
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return nil
	}
	globalDebugLogger.attachLocked(w)
	return nil
}

func (l *DebugLogger) attachLocked(w io.Writer) {
	l.out = w
	l.discard = false
	if len(l.buffer) > 0 {
		_, _ = w.Write(l.buffer)
		l.buffer = nil
	}
}

func (l *DebugLogger) closeLocked() {
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
	l.out = nil
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Close closes the debug log file if one is open.
func Close() error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if globalDebugLogger.file == nil {
		return nil
	}

	err := globalDebugLogger.file.Close()
	globalDebugLogger.file = nil
	globalDebugLogger.out = nil
	globalDebugLogger.discard = true
	return err
}
