package services

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry errors.
var (
	ErrNotInstalled     = errors.New("service not installed")
	ErrAlreadyInstalled = errors.New("service already installed")
	ErrNilCallback      = errors.New("nil availability callback")
)

// Callback is invoked when the subscribed service becomes available.
// It runs synchronously on the installing goroutine and must run to
// completion without yielding; there is no preemptive multitasking at
// this boot stage.
type Callback func(id ID)

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	// SubscriptionID uniquely identifies this subscription (UUID).
	SubscriptionID string

	// ServiceID is the service being watched.
	ServiceID ID

	// Level is the execution level the callback runs at.
	Level Priority

	fn Callback
}

// Registry is the boot-stage service registry: a service locator with
// retained availability notifications.
type Registry struct {
	mu      sync.Mutex
	handles map[ID]any
	subs    map[ID][]*Subscription
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handles: make(map[ID]any),
		subs:    make(map[ID][]*Subscription),
	}
}

// Install publishes a service handle and signals its subscribers.
// Callbacks run synchronously before Install returns, higher priority
// first. Returns ErrAlreadyInstalled if the service is already published.
func (r *Registry) Install(id ID, handle any) error {
	r.mu.Lock()

	if _, exists := r.handles[id]; exists {
		r.mu.Unlock()
		return ErrAlreadyInstalled
	}
	r.handles[id] = handle

	// Capture subscribers for signaling outside the lock.
	signaled := make([]*Subscription, len(r.subs[id]))
	copy(signaled, r.subs[id])

	r.mu.Unlock()

	sort.SliceStable(signaled, func(i, j int) bool {
		return signaled[i].Level > signaled[j].Level
	})
	for _, sub := range signaled {
		sub.fn(id)
	}
	return nil
}

// Locate returns the handle for an installed service.
// Returns ErrNotInstalled if the service has not been published.
func (r *Registry) Locate(id ID) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle, exists := r.handles[id]
	if !exists {
		return nil, ErrNotInstalled
	}
	return handle, nil
}

// Subscribe arranges for fn to be called when the service becomes
// available. The install event is retained: if the service is already
// installed, fn fires synchronously before Subscribe returns. The
// subscription stays armed afterwards, so a re-signal of the underlying
// event may invoke fn again; callers needing exactly-once semantics must
// guard for that.
func (r *Registry) Subscribe(id ID, level Priority, fn Callback) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}

	sub := &Subscription{
		SubscriptionID: uuid.New().String(),
		ServiceID:      id,
		Level:          level,
		fn:             fn,
	}

	r.mu.Lock()
	r.subs[id] = append(r.subs[id], sub)
	_, installed := r.handles[id]
	r.mu.Unlock()

	if installed {
		fn(id)
	}
	return sub, nil
}

// Unsubscribe removes a subscription. Unknown handles are ignored.
func (r *Registry) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.subs[sub.ServiceID]
	for i, s := range subs {
		if s.SubscriptionID == sub.SubscriptionID {
			r.subs[sub.ServiceID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(r.subs[sub.ServiceID]) == 0 {
		delete(r.subs, sub.ServiceID)
	}
}

// Installed reports whether a service has been published.
func (r *Registry) Installed(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.handles[id]
	return exists
}
