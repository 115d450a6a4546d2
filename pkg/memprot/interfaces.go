package memprot

import "github.com/bootguard-fw/bootguard-go/pkg/services"

// ServiceRegistry defines the registry operations used by the guard.
// It is satisfied by *services.Registry.
type ServiceRegistry interface {
	Subscribe(id services.ID, level services.Priority, fn services.Callback) (*services.Subscription, error)
	Locate(id services.ID) (any, error)
}

// Compile-time check: *services.Registry implements ServiceRegistry.
var _ ServiceRegistry = (*services.Registry)(nil)
