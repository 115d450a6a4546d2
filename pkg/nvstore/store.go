package nvstore

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Store errors.
var (
	// ErrNotWritten indicates the store holds no deliberately written
	// byte yet.
	ErrNotWritten = errors.New("flag byte not written")
)

// Store is the non-volatile byte store consumed by the fault path and by
// next-boot policy. Implementations must be safe for concurrent use.
type Store interface {
	// WriteByte persists the byte. The write must complete before the
	// caller proceeds; the fault path will not reset on failure.
	WriteByte(value byte) error

	// ReadByte returns the persisted byte, or ErrNotWritten if nothing
	// has been written.
	ReadByte() (byte, error)
}

// MemStore is an in-memory Store for tests and simulation. The zero value
// is usable.
type MemStore struct {
	mu       sync.Mutex
	value    byte
	written  bool
	writeErr error
	writes   int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// WriteByte stores the byte, or returns the injected write error.
func (s *MemStore) WriteByte(value byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writes++
	if s.writeErr != nil {
		return s.writeErr
	}
	s.value = value
	s.written = true
	return nil
}

// ReadByte returns the stored byte.
func (s *MemStore) ReadByte() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.written {
		return 0, ErrNotWritten
	}
	return s.value, nil
}

// SetWriteError injects an error returned by subsequent WriteByte calls.
// Pass nil to restore normal operation.
func (s *MemStore) SetWriteError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// Writes returns the number of WriteByte calls observed, including failed
// ones.
func (s *MemStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Clear discards the stored byte.
func (s *MemStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = 0
	s.written = false
}

// FileStore persists the byte to a single-byte file. It stands in for the
// always-powered register set on platforms simulated in userspace.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// WriteByte persists the byte to disk.
func (s *FileStore) WriteByte(value byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(s.path, []byte{value}, 0644)
}

// ReadByte reads the persisted byte from disk.
// Returns ErrNotWritten if the file doesn't exist or is empty.
func (s *FileStore) ReadByte() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return 0, ErrNotWritten
	}
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, ErrNotWritten
	}
	return data[0], nil
}

// Compile-time interface satisfaction checks.
var (
	_ Store = (*MemStore)(nil)
	_ Store = (*FileStore)(nil)
)
