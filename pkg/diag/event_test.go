package diag

import (
	"testing"
	"time"
)

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseInit, "INIT"},
		{PhaseRegistration, "REGISTRATION"},
		{PhaseFault, "FAULT"},
		{PhaseReset, "RESET"},
		{Phase(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.phase.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityInfo, "INFO"},
		{SeverityWarn, "WARN"},
		{SeverityError, "ERROR"},
		{SeverityFatal, "FATAL"},
		{Severity(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeDecodeEvent(t *testing.T) {
	event := Event{
		Timestamp: time.Now().UTC().Truncate(time.Microsecond),
		BootID:    "3f1c9a2e-test",
		Phase:     PhaseFault,
		Severity:  SeverityError,
		Message:   "page fault",
		Exception: &ExceptionEvent{
			Vector:       14,
			VectorName:   "PAGE_FAULT",
			ErrorCode:    0x2,
			FaultAddress: 0xdeadbeef,
		},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}

	got, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}

	if got.BootID != event.BootID {
		t.Errorf("BootID = %q, want %q", got.BootID, event.BootID)
	}
	if got.Phase != PhaseFault || got.Severity != SeverityError {
		t.Errorf("Phase/Severity = %v/%v, want FAULT/ERROR", got.Phase, got.Severity)
	}
	if got.Exception == nil {
		t.Fatal("Exception payload missing after round trip")
	}
	if got.Exception.FaultAddress != 0xdeadbeef {
		t.Errorf("FaultAddress = %#x, want 0xdeadbeef", got.Exception.FaultAddress)
	}
	if !got.Timestamp.Equal(event.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, event.Timestamp)
	}
}
