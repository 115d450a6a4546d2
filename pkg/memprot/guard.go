package memprot

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bootguard-fw/bootguard-go/pkg/diag"
	"github.com/bootguard-fw/bootguard-go/pkg/exception"
	"github.com/bootguard-fw/bootguard-go/pkg/nvstore"
	"github.com/bootguard-fw/bootguard-go/pkg/reset"
	"github.com/bootguard-fw/bootguard-go/pkg/services"
)

// FlagWriteAttempts is the bounded number of non-volatile store writes
// tried on the fault path before the guard gives up and refuses to reset.
const FlagWriteAttempts = 3

// Guard errors.
var (
	ErrAlreadyInitialized = errors.New("guard already initialized")
	ErrMissingDependency  = errors.New("missing guard dependency")
)

// Config holds the guard configuration and its injected collaborators.
type Config struct {
	// GlobalToggle indicates whether memory protections are globally
	// enabled for this platform build. Read once; when false the guard
	// is inert for the whole boot.
	GlobalToggle bool

	// Registry is the boot-stage service registry.
	Registry ServiceRegistry

	// Store is the non-volatile flag store.
	Store nvstore.Store

	// Reset is the system restart service.
	Reset reset.Controller

	// Sink receives diagnostic events. Nil disables diagnostics.
	Sink diag.Sink

	// BootID identifies the boot session in diagnostics.
	// Generated when empty.
	BootID string
}

// Guard is the self-disarming memory-protection fault guard.
type Guard struct {
	mu    sync.Mutex
	state State

	enabled  bool
	registry ServiceRegistry
	store    nvstore.Store
	resetter reset.Controller
	sink     diag.Sink
	bootID   string

	// Located dispatch service handle; nil until lookup succeeds.
	dispatch exception.Dispatcher

	sub        *services.Subscription
	registered bool
}

// New creates a guard from the given configuration.
func New(cfg Config) (*Guard, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("%w: registry", ErrMissingDependency)
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("%w: flag store", ErrMissingDependency)
	}
	if cfg.Reset == nil {
		return nil, fmt.Errorf("%w: reset controller", ErrMissingDependency)
	}

	sink := cfg.Sink
	if sink == nil {
		sink = diag.NoopSink{}
	}
	bootID := cfg.BootID
	if bootID == "" {
		bootID = uuid.New().String()
	}

	return &Guard{
		state:    StateUninitialized,
		enabled:  cfg.GlobalToggle,
		registry: cfg.Registry,
		store:    cfg.Store,
		resetter: cfg.Reset,
		sink:     sink,
		bootID:   bootID,
	}, nil
}

// Initialize arms the guard. With the global toggle off this is a no-op
// returning success. Otherwise it subscribes for availability of the
// exception dispatch service; the page-fault handler is registered from
// the subscription callback. Setup failures are logged and leave the
// guard in a terminal unprotected state, but are not returned as errors:
// the boot continues without fault interception.
func (g *Guard) Initialize() error {
	g.mu.Lock()
	if g.state != StateUninitialized {
		g.mu.Unlock()
		return ErrAlreadyInitialized
	}
	if !g.enabled {
		g.state = StateDisabled
		g.mu.Unlock()
		g.logStateChange(diag.PhaseInit, StateUninitialized, StateDisabled, "global toggle off")
		return nil
	}
	g.state = StateArmed
	g.mu.Unlock()
	g.logStateChange(diag.PhaseInit, StateUninitialized, StateArmed, "awaiting dispatch service")

	// Subscribe outside the lock: a retained install event fires the
	// callback synchronously on this goroutine.
	sub, err := g.registry.Subscribe(services.DispatchService, services.PriorityCallback, g.onDispatchAvailable)
	if err != nil {
		g.log(diag.PhaseInit, diag.SeverityWarn,
			fmt.Sprintf("availability subscription failed: %v; memory protections cannot be turned off via page fault handler", err))
		g.transition(diag.PhaseInit, StateUnprotected, "subscription failed")
		return nil
	}

	g.mu.Lock()
	g.sub = sub
	g.mu.Unlock()
	return nil
}

// onDispatchAvailable runs when the dispatch service is installed. The
// underlying event may be re-signaled, so the callback is idempotent:
// once the handler is registered (or registration has permanently
// failed) further deliveries do nothing.
func (g *Guard) onDispatchAvailable(services.ID) {
	g.mu.Lock()
	if g.registered || g.state != StateArmed {
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	handle, err := g.registry.Locate(services.DispatchService)
	if err != nil {
		g.log(diag.PhaseRegistration, diag.SeverityWarn,
			fmt.Sprintf("failed to locate dispatch service: %v; memory protections cannot be turned off via page fault handler", err))
		g.transition(diag.PhaseRegistration, StateUnprotected, "dispatch service lookup failed")
		return
	}
	dispatcher, ok := handle.(exception.Dispatcher)
	if !ok {
		g.log(diag.PhaseRegistration, diag.SeverityWarn,
			fmt.Sprintf("dispatch service handle has unexpected type %T", handle))
		g.transition(diag.PhaseRegistration, StateUnprotected, "dispatch service handle invalid")
		return
	}

	if err := dispatcher.RegisterHandler(exception.PageFault, g.HandleFault); err != nil {
		g.log(diag.PhaseRegistration, diag.SeverityWarn,
			fmt.Sprintf("failed to register exception handler: %v; memory protections cannot be turned off via page fault handler", err))
		g.transition(diag.PhaseRegistration, StateUnprotected, "handler registration failed")
		return
	}

	g.mu.Lock()
	g.dispatch = dispatcher
	g.registered = true
	g.state = StateRegistered
	g.mu.Unlock()
	g.logStateChange(diag.PhaseRegistration, StateArmed, StateRegistered, "page fault handler installed")
}

// HandleFault is the page-fault callback. It runs synchronously on the
// faulting path: diagnostics are best effort, the flag write is
// correctness-critical, and on success the final action is a warm reset
// that never returns control to the faulted instruction stream.
func (g *Guard) HandleFault(t exception.Type, ctx *exception.Context) {
	flag := nvstore.DisableFlag()

	ev := g.event(diag.PhaseFault, diag.SeverityError,
		fmt.Sprintf("%s - error code %#x", t, faultErrorCode(ctx)))
	ev.Exception = &diag.ExceptionEvent{
		Vector:     uint8(t),
		VectorName: t.String(),
		ErrorCode:  faultErrorCode(ctx),
	}
	if ctx != nil {
		ev.Exception.FaultAddress = ctx.FaultAddress
	}
	g.sink.Log(ev)

	if ctx != nil {
		dump := g.event(diag.PhaseFault, diag.SeverityError, "register dump")
		dump.Registers = &diag.RegisterDump{
			Rax: ctx.Rax, Rbx: ctx.Rbx, Rcx: ctx.Rcx, Rdx: ctx.Rdx,
			Rsi: ctx.Rsi, Rdi: ctx.Rdi, Rbp: ctx.Rbp, Rsp: ctx.Rsp,
			R8: ctx.R8, R9: ctx.R9, R10: ctx.R10, R11: ctx.R11,
			R12: ctx.R12, R13: ctx.R13, R14: ctx.R14, R15: ctx.R15,
			Rip: ctx.Rip, Rflags: ctx.Rflags,
		}
		g.sink.Log(dump)
	}

	// Persist the disable byte. A reset without it would re-trigger the
	// same fault on the next boot, so the write is retried a bounded
	// number of times and the reset is withheld if it never succeeds.
	var err error
	for attempt := 1; attempt <= FlagWriteAttempts; attempt++ {
		err = g.store.WriteByte(byte(flag))

		sev := diag.SeverityInfo
		storeEv := &diag.StoreEvent{Value: byte(flag), Attempt: attempt}
		if err != nil {
			sev = diag.SeverityWarn
			storeEv.Error = err.Error()
		}
		wev := g.event(diag.PhaseFault, sev, "flag store write")
		wev.Store = storeEv
		g.sink.Log(wev)

		if err == nil {
			break
		}
	}
	if err != nil {
		g.log(diag.PhaseFault, diag.SeverityFatal,
			fmt.Sprintf("flag store write failed after %d attempts: %v; refusing to reset", FlagWriteAttempts, err))
		g.transition(diag.PhaseFault, StateWriteFailed, "flag write failed")
		return
	}
	g.transition(diag.PhaseFault, StateFlagPersisted, "disable flag persisted")

	g.log(diag.PhaseReset, diag.SeverityInfo, "resetting...")
	g.transition(diag.PhaseReset, StateResetting, "warm reset")
	g.resetter.Reset(reset.Warm, reset.Success, nil)
}

// State returns the current guard state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Registered reports whether the page-fault handler is installed.
func (g *Guard) Registered() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.registered
}

// BootID returns the boot session identifier used in diagnostics.
func (g *Guard) BootID() string {
	return g.bootID
}

// event builds a diagnostic event stamped with the boot session.
func (g *Guard) event(phase diag.Phase, sev diag.Severity, msg string) diag.Event {
	return diag.Event{
		Timestamp: time.Now(),
		BootID:    g.bootID,
		Phase:     phase,
		Severity:  sev,
		Message:   msg,
	}
}

// log emits a plain message event.
func (g *Guard) log(phase diag.Phase, sev diag.Severity, msg string) {
	g.sink.Log(g.event(phase, sev, msg))
}

// transition moves the guard to a new state and emits a state-change
// event.
func (g *Guard) transition(phase diag.Phase, to State, reason string) {
	g.mu.Lock()
	from := g.state
	g.state = to
	g.mu.Unlock()

	g.logStateChange(phase, from, to, reason)
}

// logStateChange emits a state-change event.
func (g *Guard) logStateChange(phase diag.Phase, from, to State, reason string) {
	ev := g.event(phase, diag.SeverityInfo, "state change")
	ev.StateChange = &diag.StateChangeEvent{
		OldState: from.String(),
		NewState: to.String(),
		Reason:   reason,
	}
	g.sink.Log(ev)
}

// faultErrorCode extracts the error code from a possibly nil context.
func faultErrorCode(ctx *exception.Context) uint64 {
	if ctx == nil {
		return 0
	}
	return ctx.ErrorCode
}
