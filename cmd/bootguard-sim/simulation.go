package main

import (
	"fmt"
	"sync"

	"github.com/bootguard-fw/bootguard-go/pkg/diag"
	"github.com/bootguard-fw/bootguard-go/pkg/exception"
	"github.com/bootguard-fw/bootguard-go/pkg/memprot"
	"github.com/bootguard-fw/bootguard-go/pkg/nvstore"
	"github.com/bootguard-fw/bootguard-go/pkg/policy"
	"github.com/bootguard-fw/bootguard-go/pkg/reset"
	"github.com/bootguard-fw/bootguard-go/pkg/services"
)

// resetRecord captures a reset request issued by the guard.
type resetRecord struct {
	Kind   reset.Kind
	Status reset.Status
}

// simMachine assembles the boot-stage collaborators and drives them
// through simulated boot sessions. A "boot" builds a fresh service
// registry, dispatch table and guard; only the flag store survives
// across boots, like the real non-volatile byte.
type simMachine struct {
	mu sync.Mutex

	policy policy.Config
	store  nvstore.Store
	sink   diag.Sink

	registry *services.Registry
	table    *exception.Table
	guard    *memprot.Guard

	boots  int
	resets []resetRecord
}

func newSimMachine(cfg policy.Config, store nvstore.Store, sink diag.Sink) *simMachine {
	return &simMachine{
		policy: cfg,
		store:  store,
		sink:   sink,
	}
}

// Boot starts a fresh boot session. Prior session state is discarded;
// the flag store persists.
func (m *simMachine) Boot() error {
	m.mu.Lock()

	m.registry = services.NewRegistry()
	m.table = exception.NewTable()
	m.boots++

	flag, err := policy.ReadFlag(m.store)
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to read disable flag: %w", err)
	}

	guard, err := memprot.New(memprot.Config{
		GlobalToggle: policy.Effective(m.policy, flag),
		Registry:     m.registry,
		Store:        m.store,
		Reset:        reset.Func(m.recordReset),
		Sink:         m.sink,
	})
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to create guard: %w", err)
	}
	m.guard = guard
	m.mu.Unlock()

	// Initialize may subscribe and log; keep it outside the machine lock.
	return guard.Initialize()
}

func (m *simMachine) recordReset(kind reset.Kind, status reset.Status, _ []byte) {
	m.mu.Lock()
	m.resets = append(m.resets, resetRecord{Kind: kind, Status: status})
	m.mu.Unlock()
}

// InstallDispatch publishes the exception dispatch service, which
// triggers any pending guard registration.
func (m *simMachine) InstallDispatch() error {
	m.mu.Lock()
	registry := m.registry
	table := m.table
	m.mu.Unlock()

	if registry == nil {
		return fmt.Errorf("no boot session, run boot first")
	}
	return registry.Install(services.DispatchService, table)
}

// InjectFault dispatches a synthetic page fault with the given fault
// address through the exception table.
func (m *simMachine) InjectFault(addr uint64) error {
	m.mu.Lock()
	table := m.table
	m.mu.Unlock()

	if table == nil {
		return fmt.Errorf("no boot session, run boot first")
	}

	ctx := &exception.Context{
		Rip:          0xffffffff80001234,
		Rsp:          0xffffffff9000ff00,
		Rax:          0xdead10ccdead10cc,
		ErrorCode:    0x2, // write access, not-present page
		FaultAddress: addr,
	}
	return table.Dispatch(exception.PageFault, ctx)
}

// State reports the guard state of the current boot session.
func (m *simMachine) State() memprot.State {
	m.mu.Lock()
	guard := m.guard
	m.mu.Unlock()

	if guard == nil {
		return memprot.StateUninitialized
	}
	return guard.State()
}

func (m *simMachine) Registered() bool {
	m.mu.Lock()
	guard := m.guard
	m.mu.Unlock()

	return guard != nil && guard.Registered()
}

func (m *simMachine) BootID() string {
	m.mu.Lock()
	guard := m.guard
	m.mu.Unlock()

	if guard == nil {
		return ""
	}
	return guard.BootID()
}

// Flag reads the current disable flag byte from the store.
func (m *simMachine) Flag() (nvstore.Flag, error) {
	return policy.ReadFlag(m.store)
}

// ClearFlag resets the disable flag, re-enabling protections on the
// next boot.
func (m *simMachine) ClearFlag() error {
	return policy.ClearFlag(m.store)
}

// Effective reports whether protections would be active on the next
// boot, given the policy and the persisted flag.
func (m *simMachine) Effective() (bool, error) {
	flag, err := policy.ReadFlag(m.store)
	if err != nil {
		return false, err
	}
	return policy.Effective(m.policy, flag), nil
}

func (m *simMachine) Boots() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.boots
}

// ResetCount reports how many reset requests the guard has issued.
func (m *simMachine) ResetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.resets)
}

// Resets returns the reset requests observed so far.
func (m *simMachine) Resets() []resetRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]resetRecord, len(m.resets))
	copy(out, m.resets)
	return out
}
