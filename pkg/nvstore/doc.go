// Package nvstore implements the non-volatile flag store: a single
// persistent byte that survives a warm reset.
//
// The byte carries two fields. Bit 7 is the validity marker, indicating the
// byte holds a deliberately written value rather than stale contents. Bit 0
// is the protection-disable indicator. Next-boot policy treats a byte with
// both bits set as "memory protections must start disabled".
//
// Store implementations must stay usable from a degraded system state: the
// fault path writes the byte after the protection violation has already
// occurred, so a store cannot depend on services that may be compromised
// by it.
package nvstore
