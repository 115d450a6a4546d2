package services

// ID identifies a platform service in the registry.
type ID uint8

const (
	// DispatchService is the exception dispatch service.
	DispatchService ID = 1

	// ResetService is the system restart service.
	ResetService ID = 2

	// StoreService is the non-volatile byte store service.
	StoreService ID = 3
)

// String returns the service name.
func (id ID) String() string {
	switch id {
	case DispatchService:
		return "DISPATCH"
	case ResetService:
		return "RESET"
	case StoreService:
		return "STORE"
	default:
		return "UNKNOWN"
	}
}

// Priority is the execution level an availability callback runs at.
// Higher values run first when multiple subscribers are signaled by the
// same install event.
type Priority uint8

const (
	// PriorityApplication is the normal boot-path execution level.
	PriorityApplication Priority = 4

	// PriorityCallback is the deferred-callback execution level.
	PriorityCallback Priority = 8

	// PriorityNotify is the highest notification execution level.
	PriorityNotify Priority = 16
)

// String returns the priority level name.
func (p Priority) String() string {
	switch p {
	case PriorityApplication:
		return "APPLICATION"
	case PriorityCallback:
		return "CALLBACK"
	case PriorityNotify:
		return "NOTIFY"
	default:
		return "UNKNOWN"
	}
}
