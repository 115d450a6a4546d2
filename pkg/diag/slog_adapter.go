package diag

import (
	"context"
	"log/slog"
)

// SlogAdapter writes diagnostic events to an slog.Logger.
// Useful for development when you want to see boot events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given
// slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at a level derived from the
// event severity.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("boot_id", event.BootID),
		slog.String("phase", event.Phase.String()),
	}

	switch {
	case event.Exception != nil:
		attrs = append(attrs,
			slog.String("vector", event.Exception.VectorName),
			slog.Uint64("error_code", event.Exception.ErrorCode),
		)
		if event.Exception.FaultAddress != 0 {
			attrs = append(attrs, slog.Uint64("fault_address", event.Exception.FaultAddress))
		}
	case event.Registers != nil:
		attrs = append(attrs,
			slog.Uint64("rip", event.Registers.Rip),
			slog.Uint64("rsp", event.Registers.Rsp),
			slog.Uint64("rflags", event.Registers.Rflags),
		)
	case event.StateChange != nil:
		if event.StateChange.OldState != "" {
			attrs = append(attrs, slog.String("old_state", event.StateChange.OldState))
		}
		attrs = append(attrs, slog.String("new_state", event.StateChange.NewState))
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Store != nil:
		attrs = append(attrs,
			slog.Uint64("value", uint64(event.Store.Value)),
			slog.Int("attempt", event.Store.Attempt),
		)
		if event.Store.Error != "" {
			attrs = append(attrs, slog.String("error", event.Store.Error))
		}
	}

	a.logger.LogAttrs(context.Background(), slogLevel(event.Severity), event.Message, attrs...)
}

// slogLevel maps event severity to an slog level.
func slogLevel(s Severity) slog.Level {
	switch s {
	case SeverityWarn:
		return slog.LevelWarn
	case SeverityError, SeverityFatal:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Compile-time interface satisfaction check.
var _ Sink = (*SlogAdapter)(nil)
