// Package services implements the boot-stage service registry.
//
// Platform services come up in an arbitrary order during boot. A subsystem
// that depends on a service which may not exist yet subscribes for an
// availability notification instead of polling: the callback fires at the
// subscriber's priority level as soon as the service is installed.
//
// Install events are retained. A subscriber arriving after the service was
// installed is signaled immediately, and the underlying platform event may
// be re-signaled, so callbacks can fire more than once for the same service.
// Subscribers that must act exactly once have to guard against re-delivery
// themselves.
package services
