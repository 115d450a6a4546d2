// Package reset defines the system restart service consumed by fault
// handlers and boot orchestration. On real hardware Reset does not return;
// userspace implementations record the call and hand control back so the
// simulator can model the following boot.
package reset

// Kind selects the restart variant.
type Kind uint8

const (
	// Cold fully re-initializes hardware state.
	Cold Kind = 0

	// Warm restarts without re-initializing all hardware state.
	Warm Kind = 1

	// Shutdown powers the system off instead of restarting.
	Shutdown Kind = 2
)

// String returns the reset kind name.
func (k Kind) String() string {
	switch k {
	case Cold:
		return "COLD"
	case Warm:
		return "WARM"
	case Shutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

// Status is the completion code reported with a reset request.
type Status uint8

const (
	// Success indicates a deliberate, non-error restart.
	Success Status = 0

	// LoadError indicates a boot image failed to load.
	LoadError Status = 1

	// InvalidParameter indicates a malformed platform request.
	InvalidParameter Status = 2

	// Unsupported indicates an operation the platform cannot perform.
	Unsupported Status = 3

	// DeviceError indicates a hardware failure.
	DeviceError Status = 4
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Success:
		return "SUCCESS"
	case LoadError:
		return "LOAD_ERROR"
	case InvalidParameter:
		return "INVALID_PARAMETER"
	case Unsupported:
		return "UNSUPPORTED"
	case DeviceError:
		return "DEVICE_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Controller is the restart service. Data carries optional
// platform-defined payload; nil means none.
type Controller interface {
	Reset(kind Kind, status Status, data []byte)
}

// Func adapts a plain function to the Controller interface.
type Func func(kind Kind, status Status, data []byte)

// Reset calls f.
func (f Func) Reset(kind Kind, status Status, data []byte) {
	f(kind, status, data)
}

// Compile-time interface satisfaction check.
var _ Controller = Func(nil)
