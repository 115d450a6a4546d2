package exception

import (
	"errors"
	"sync"
)

// Dispatch errors.
var (
	ErrAlreadyRegistered = errors.New("handler already registered for vector")
	ErrNoHandler         = errors.New("no handler registered for vector")
)

// Dispatcher is the registration surface of the exception dispatch service.
// It is satisfied by *Table.
type Dispatcher interface {
	// RegisterHandler installs handler for the given vector. Once
	// registered, the handler is invoked on every occurrence of that
	// exception until the table is torn down; there is no unregister.
	RegisterHandler(t Type, handler Handler) error
}

// Table is the in-process exception dispatch table: one handler slot per
// vector, first registration wins.
type Table struct {
	mu       sync.RWMutex
	handlers map[Type]Handler
}

// NewTable creates an empty dispatch table.
func NewTable() *Table {
	return &Table{handlers: make(map[Type]Handler)}
}

// RegisterHandler installs handler for the given vector.
// Returns ErrAlreadyRegistered if the slot is occupied.
func (tb *Table) RegisterHandler(t Type, handler Handler) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if _, exists := tb.handlers[t]; exists {
		return ErrAlreadyRegistered
	}
	tb.handlers[t] = handler
	return nil
}

// InstallDefault installs handler for any of the given vectors that do not
// already have one. Occupied slots are left untouched. Used by platform
// bring-up to fill vacant vectors after subsystems had their chance to
// register.
func (tb *Table) InstallDefault(handler Handler, vectors ...Type) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	for _, v := range vectors {
		if _, exists := tb.handlers[v]; !exists {
			tb.handlers[v] = handler
		}
	}
}

// Registered reports whether a handler is installed for the given vector.
func (tb *Table) Registered(t Type) bool {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	_, exists := tb.handlers[t]
	return exists
}

// Dispatch invokes the handler registered for the given vector.
// Returns ErrNoHandler if the slot is vacant. The handler runs on the
// caller's goroutine, outside the table lock, mirroring the synchronous
// faulting-path execution model.
func (tb *Table) Dispatch(t Type, ctx *Context) error {
	tb.mu.RLock()
	handler := tb.handlers[t]
	tb.mu.RUnlock()

	if handler == nil {
		return ErrNoHandler
	}
	handler(t, ctx)
	return nil
}

// Compile-time interface satisfaction check.
var _ Dispatcher = (*Table)(nil)
