// Package exception implements the processor exception dispatch service.
//
// The dispatch Table owns one handler slot per exception vector. Platform
// code installs default handlers during bring-up; subsystems that need to
// intercept a specific vector register their own handler once the service
// is available. Registration is first-wins: a vector with a handler already
// installed rejects further registrations rather than silently replacing
// them.
//
// Handlers run synchronously on the faulting path. The Context passed to a
// handler is a read-only snapshot of processor state borrowed for the
// duration of the call; handlers must not retain it.
package exception
