package nvstore

// Flag is the persisted protection-disable byte.
type Flag byte

const (
	// ValidMask marks the byte as deliberately written (bit 7).
	ValidMask Flag = 0x80

	// DisableMask is the protection-disable indicator (bit 0).
	DisableMask Flag = 0x01
)

// DisableFlag returns the byte value persisted on a protection fault:
// validity marker and disable indicator both set. The value is constant,
// never derived from prior store contents, so repeated faults are
// idempotent.
func DisableFlag() Flag {
	return ValidMask | DisableMask
}

// Valid reports whether the validity marker is set.
func (f Flag) Valid() bool {
	return f&ValidMask != 0
}

// Disabled reports whether the byte requests protections disabled.
// A byte without the validity marker is stale and never disables.
func (f Flag) Disabled() bool {
	return f.Valid() && f&DisableMask != 0
}

// String returns a human-readable rendering of the flag byte.
func (f Flag) String() string {
	switch {
	case !f.Valid():
		return "INVALID"
	case f.Disabled():
		return "DISABLE"
	default:
		return "VALID"
	}
}
