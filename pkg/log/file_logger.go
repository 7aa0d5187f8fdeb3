package log

import (
	"os"
	"path/filepath"
	"sync"
)

// FileLogger appends event records to an .olog file.
//
// Arm and terminal records are synced to disk before Log returns: a
// completed cycle usually means the machine is about to lose power, and
// the record of it must survive that. Ticks are only written.
type FileLogger struct {
	mu     sync.Mutex
	f      *os.File
	err    error
	closed bool
}

// NewFileLogger opens path for appending, creating it and its directory
// if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{f: f}, nil
}

// Log appends the event. Write failures never reach the scheduler; the
// first one is kept and reported by Err.
func (l *FileLogger) Log(event Event) {
	data, err := EncodeEvent(event)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if err == nil {
		_, err = l.f.Write(data)
	}
	if err == nil && (event.Kind == KindArm || event.Kind.Terminal()) {
		err = l.f.Sync()
	}
	if err != nil && l.err == nil {
		l.err = err
	}
}

// Err returns the first write or sync error, if any.
func (l *FileLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close closes the file. Later Log calls are ignored; closing twice is a
// no-op.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.f.Close()
}

var _ Logger = (*FileLogger)(nil)
