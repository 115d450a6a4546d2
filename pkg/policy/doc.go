// Package policy implements the platform memory-protection policy.
//
// The policy has two inputs: the build-time configuration (which
// protections this platform enables, and whether the disable mechanism is
// active at all) and the persisted protection-disable byte written by the
// fault guard on a previous boot. At boot, Effective combines both: the
// persisted byte overrides the configuration until platform logic clears
// it after acting on it.
package policy
