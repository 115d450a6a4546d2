package exception

// Type identifies a processor exception vector.
type Type uint8

const (
	// DivideError is raised on an integer divide by zero.
	DivideError Type = 0

	// InvalidOpcode is raised when the processor decodes an undefined
	// instruction.
	InvalidOpcode Type = 6

	// DoubleFault occurs when an exception is unhandled or when an
	// exception occurs while the processor is trying to call an
	// exception handler.
	DoubleFault Type = 8

	// GeneralProtection is raised when a general protection check fails.
	GeneralProtection Type = 13

	// PageFault is raised when a page translation is not present or when
	// a privilege or read/write protection check fails.
	PageFault Type = 14
)

// String returns the exception vector name.
func (t Type) String() string {
	switch t {
	case DivideError:
		return "DIVIDE_ERROR"
	case InvalidOpcode:
		return "INVALID_OPCODE"
	case DoubleFault:
		return "DOUBLE_FAULT"
	case GeneralProtection:
		return "GENERAL_PROTECTION"
	case PageFault:
		return "PAGE_FAULT"
	default:
		return "UNKNOWN"
	}
}

// Context is the processor state snapshot delivered to a handler at fault
// time. It is borrowed for the duration of the handler invocation and must
// not be retained past it.
type Context struct {
	// General purpose registers.
	Rax uint64
	Rbx uint64
	Rcx uint64
	Rdx uint64
	Rsi uint64
	Rdi uint64
	Rbp uint64
	Rsp uint64
	R8  uint64
	R9  uint64
	R10 uint64
	R11 uint64
	R12 uint64
	R13 uint64
	R14 uint64
	R15 uint64

	// Rip is the instruction pointer at the faulting instruction.
	Rip uint64

	// Rflags is the processor flags register.
	Rflags uint64

	// ErrorCode is the architecture-specific error code pushed by the
	// processor for vectors that define one (page fault, GP fault).
	ErrorCode uint64

	// FaultAddress is the linear address that caused a page fault (CR2).
	// Zero for vectors that do not report a fault address.
	FaultAddress uint64
}

// Handler is a function invoked by the dispatch service when the exception
// it was registered for occurs. A handler that arranges a system reset does
// not return control to the faulted instruction stream.
type Handler func(t Type, ctx *Context)
