package diag

import "time"

// Event is a boot diagnostic record captured at any phase.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// BootID uniquely identifies the boot session (UUID).
	BootID string `cbor:"2,keyasint"`

	// Phase of boot the event was captured in.
	Phase Phase `cbor:"3,keyasint"`

	// Severity classifies the event.
	Severity Severity `cbor:"4,keyasint"`

	// Message is the human-readable event text.
	Message string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (at most one of these will be set).
	Exception   *ExceptionEvent   `cbor:"6,keyasint,omitempty"` // Fault detail
	Registers   *RegisterDump     `cbor:"7,keyasint,omitempty"` // Processor state
	StateChange *StateChangeEvent `cbor:"8,keyasint,omitempty"` // Guard lifecycle
	Store       *StoreEvent       `cbor:"9,keyasint,omitempty"` // Flag store writes
}

// Phase indicates which boot phase captured the event.
type Phase uint8

const (
	// PhaseInit is subsystem initialization.
	PhaseInit Phase = 0
	// PhaseRegistration is deferred handler registration.
	PhaseRegistration Phase = 1
	// PhaseFault is the fault handling path.
	PhaseFault Phase = 2
	// PhaseReset is the restart path.
	PhaseReset Phase = 3
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "INIT"
	case PhaseRegistration:
		return "REGISTRATION"
	case PhaseFault:
		return "FAULT"
	case PhaseReset:
		return "RESET"
	default:
		return "UNKNOWN"
	}
}

// Severity classifies the event.
type Severity uint8

const (
	// SeverityInfo is routine progress.
	SeverityInfo Severity = 0
	// SeverityWarn is a degraded-capability condition.
	SeverityWarn Severity = 1
	// SeverityError is a failed operation.
	SeverityError Severity = 2
	// SeverityFatal is a condition the boot cannot recover from.
	SeverityFatal Severity = 3
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ExceptionEvent captures architecture-specific fault detail.
type ExceptionEvent struct {
	// Vector is the exception vector number.
	Vector uint8 `cbor:"1,keyasint"`

	// VectorName is the human-readable vector name.
	VectorName string `cbor:"2,keyasint,omitempty"`

	// ErrorCode is the error code pushed by the processor.
	ErrorCode uint64 `cbor:"3,keyasint"`

	// FaultAddress is the faulting linear address, if the vector
	// reports one.
	FaultAddress uint64 `cbor:"4,keyasint,omitempty"`
}

// RegisterDump captures the full processor state snapshot.
type RegisterDump struct {
	Rax    uint64 `cbor:"1,keyasint"`
	Rbx    uint64 `cbor:"2,keyasint"`
	Rcx    uint64 `cbor:"3,keyasint"`
	Rdx    uint64 `cbor:"4,keyasint"`
	Rsi    uint64 `cbor:"5,keyasint"`
	Rdi    uint64 `cbor:"6,keyasint"`
	Rbp    uint64 `cbor:"7,keyasint"`
	Rsp    uint64 `cbor:"8,keyasint"`
	R8     uint64 `cbor:"9,keyasint"`
	R9     uint64 `cbor:"10,keyasint"`
	R10    uint64 `cbor:"11,keyasint"`
	R11    uint64 `cbor:"12,keyasint"`
	R12    uint64 `cbor:"13,keyasint"`
	R13    uint64 `cbor:"14,keyasint"`
	R14    uint64 `cbor:"15,keyasint"`
	R15    uint64 `cbor:"16,keyasint"`
	Rip    uint64 `cbor:"17,keyasint"`
	Rflags uint64 `cbor:"18,keyasint"`
}

// StateChangeEvent captures a guard lifecycle transition.
type StateChangeEvent struct {
	// OldState is the previous state name (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state name.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// StoreEvent captures a non-volatile flag store write.
type StoreEvent struct {
	// Value is the byte written (or attempted).
	Value byte `cbor:"1,keyasint"`

	// Attempt is the 1-based write attempt number.
	Attempt int `cbor:"2,keyasint"`

	// Error is the write error text, empty on success.
	Error string `cbor:"3,keyasint,omitempty"`
}
