package diag

// Sink is the interface platforms implement to receive diagnostic events.
// Pass nil or NoopSink to disable diagnostics.
type Sink interface {
	// Log records a diagnostic event. Implementations must be
	// thread-safe and must not block the emitting path.
	Log(event Event)
}

// NoopSink discards all events. Use when diagnostics are disabled.
// NoopSink is safe for concurrent use and usable as a zero value.
type NoopSink struct{}

// Log discards the event.
func (NoopSink) Log(Event) {}

// MultiSink sends events to multiple sinks. Useful when you want both
// console output (via SlogAdapter) and file output (via FileSink)
// simultaneously.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a MultiSink that sends events to all provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Log sends the event to all configured sinks.
func (m *MultiSink) Log(event Event) {
	for _, s := range m.sinks {
		s.Log(event)
	}
}

// Compile-time interface satisfaction checks.
var (
	_ Sink = NoopSink{}
	_ Sink = (*MultiSink)(nil)
)
