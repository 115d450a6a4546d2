// Package diag implements the boot diagnostic sink.
//
// Subsystems emit structured events (state changes, exception records,
// register dumps, store writes) to a Sink. Sinks are best-effort by
// contract: a sink failure must never block the emitting path, which on a
// fault is the path between the protection violation and the warm reset.
//
// FileSink persists events in CBOR with integer keys for compactness;
// Reader streams them back for offline analysis (see cmd/bootguard-log).
// SlogAdapter mirrors events to a log/slog logger for development, and
// MultiSink fans out to several sinks at once.
package diag
