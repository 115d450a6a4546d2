package memprot

// State represents the guard lifecycle state for the current boot.
type State uint8

const (
	// StateUninitialized is the state before Initialize runs.
	StateUninitialized State = iota

	// StateDisabled is terminal: the global toggle is off and the guard
	// does nothing this boot.
	StateDisabled

	// StateArmed indicates the availability subscription is in place and
	// the guard is waiting for the dispatch service.
	StateArmed

	// StateRegistered indicates the page-fault handler is installed.
	StateRegistered

	// StateUnprotected is terminal: a setup step failed and no fault
	// interception happens this boot.
	StateUnprotected

	// StateFlagPersisted indicates the disable byte reached the
	// non-volatile store after a fault.
	StateFlagPersisted

	// StateResetting indicates the warm reset has been issued.
	StateResetting

	// StateWriteFailed is terminal: the flag write failed after a fault
	// and the guard refused to reset.
	StateWriteFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateDisabled:
		return "DISABLED"
	case StateArmed:
		return "ARMED"
	case StateRegistered:
		return "REGISTERED"
	case StateUnprotected:
		return "UNPROTECTED"
	case StateFlagPersisted:
		return "FLAG_PERSISTED"
	case StateResetting:
		return "RESETTING"
	case StateWriteFailed:
		return "WRITE_FAILED"
	default:
		return "UNKNOWN"
	}
}
