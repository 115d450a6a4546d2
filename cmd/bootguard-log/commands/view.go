// Package commands implements the bootguard-log CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/bootguard-fw/bootguard-go/pkg/diag"
)

// RunView reads the diagnostic log and writes a human-readable rendering
// of each matching event.
func RunView(path string, filter diag.Filter, w io.Writer) error {
	reader, err := diag.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open diag log: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event diag.Event) {
	// Header line: timestamp [boot:id] SEVERITY PHASE Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	bootID := shortenBootID(event.BootID)

	var typeLabel string
	switch {
	case event.Exception != nil:
		typeLabel = "Exception"
	case event.Registers != nil:
		typeLabel = "Registers"
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Store != nil:
		typeLabel = "Store"
	default:
		typeLabel = "Message"
	}

	fmt.Fprintf(w, "%s [boot:%s] %-5s %-12s %s\n", ts, bootID, event.Severity, event.Phase, typeLabel)

	if event.Message != "" {
		fmt.Fprintf(w, "  %s\n", event.Message)
	}

	switch {
	case event.Exception != nil:
		e := event.Exception
		fmt.Fprintf(w, "  vector=%d (%s) error_code=%#x", e.Vector, e.VectorName, e.ErrorCode)
		if e.FaultAddress != 0 {
			fmt.Fprintf(w, " fault_address=%#x", e.FaultAddress)
		}
		fmt.Fprintln(w)
	case event.Registers != nil:
		formatRegisters(w, event.Registers)
	case event.StateChange != nil:
		s := event.StateChange
		if s.OldState != "" {
			fmt.Fprintf(w, "  %s -> %s", s.OldState, s.NewState)
		} else {
			fmt.Fprintf(w, "  -> %s", s.NewState)
		}
		if s.Reason != "" {
			fmt.Fprintf(w, " (%s)", s.Reason)
		}
		fmt.Fprintln(w)
	case event.Store != nil:
		st := event.Store
		fmt.Fprintf(w, "  value=%#02x attempt=%d", st.Value, st.Attempt)
		if st.Error != "" {
			fmt.Fprintf(w, " error=%q", st.Error)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w) // Blank line between events
}

// formatRegisters writes the register dump four registers per line.
func formatRegisters(w io.Writer, r *diag.RegisterDump) {
	fmt.Fprintf(w, "  RAX=%016x RBX=%016x RCX=%016x RDX=%016x\n", r.Rax, r.Rbx, r.Rcx, r.Rdx)
	fmt.Fprintf(w, "  RSI=%016x RDI=%016x RBP=%016x RSP=%016x\n", r.Rsi, r.Rdi, r.Rbp, r.Rsp)
	fmt.Fprintf(w, "  R8 =%016x R9 =%016x R10=%016x R11=%016x\n", r.R8, r.R9, r.R10, r.R11)
	fmt.Fprintf(w, "  R12=%016x R13=%016x R14=%016x R15=%016x\n", r.R12, r.R13, r.R14, r.R15)
	fmt.Fprintf(w, "  RIP=%016x RFLAGS=%016x\n", r.Rip, r.Rflags)
}

// shortenBootID returns the first 8 characters of the boot ID.
func shortenBootID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// ParsePhaseFlag converts a phase flag value to a Phase.
func ParsePhaseFlag(s string) (diag.Phase, error) {
	switch s {
	case "init":
		return diag.PhaseInit, nil
	case "registration":
		return diag.PhaseRegistration, nil
	case "fault":
		return diag.PhaseFault, nil
	case "reset":
		return diag.PhaseReset, nil
	default:
		return 0, fmt.Errorf("unknown phase: %s (supported: init, registration, fault, reset)", s)
	}
}

// ParseSeverityFlag converts a severity flag value to a Severity.
func ParseSeverityFlag(s string) (diag.Severity, error) {
	switch s {
	case "info":
		return diag.SeverityInfo, nil
	case "warn":
		return diag.SeverityWarn, nil
	case "error":
		return diag.SeverityError, nil
	case "fatal":
		return diag.SeverityFatal, nil
	default:
		return 0, fmt.Errorf("unknown severity: %s (supported: info, warn, error, fatal)", s)
	}
}
