// Package memprot implements the self-disarming memory-protection guard.
//
// When memory protections are globally enabled, the guard arranges for a
// page-fault handler to be registered as soon as the exception dispatch
// service becomes available. Registering earlier would race the service's
// own default-handler installation, so registration is driven by the
// service-availability notification rather than by polling.
//
// When the handler fires, the violation is unrecoverable for this boot:
// the guard records diagnostics, persists the protection-disable byte to
// the non-volatile store and issues a warm reset. Next-boot policy reads
// the byte and starts with protections off, breaking the fault loop. The
// persisted write is the correctness-critical step: the guard never
// resets without it, since a reset with no flag would re-trigger the same
// fault on the next boot indefinitely.
//
// All setup failures are non-fatal. The boot continues without fault
// interception and the guard parks in a terminal unprotected state.
package memprot
