package diag

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileSink writes diagnostic events to a file in CBOR format.
// It is safe for concurrent use from multiple goroutines.
type FileSink struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewFileSink creates a new FileSink that writes to the specified path.
// If the file exists, new events are appended. The file is created with
// permissions 0644 if it doesn't exist.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileSink{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Log writes an event to the file.
// Encoding errors are ignored; diagnostics must not disrupt the boot path.
func (s *FileSink) Log(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	_ = s.encoder.Encode(event)
}

// Close closes the file.
// It is safe to call Close multiple times.
// After Close is called, subsequent Log calls are silently ignored.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.file.Close()
}

// Compile-time interface satisfaction check.
var _ Sink = (*FileSink)(nil)
