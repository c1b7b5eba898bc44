package rbac

import (
	"errors"
	"fmt"
)

// ErrStoreRequired is returned by NewEngine when no store.Store was
// supplied via WithStore.
var ErrStoreRequired = errors.New("rbac: store is required")

// StoreError wraps a failure returned by the underlying store, so
// callers can distinguish "the store errored" from "the store said no"
// without inspecting string content.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("rbac: store: %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// RoleCycleDetectedError is returned when the role-inheritance resolver
// encounters a role already on the current walk's path — an explicit
// failure, never silently truncated or deduplicated away.
type RoleCycleDetectedError struct {
	Tenant string
	Role   string
}

func (e *RoleCycleDetectedError) Error() string {
	return fmt.Sprintf("rbac: role cycle detected: tenant=%s role=%s", e.Tenant, e.Role)
}

// RoleDepthExceededError is returned when the role-inheritance resolver
// would need to follow more edges than Config.MaxRoleDepth permits.
type RoleDepthExceededError struct {
	Tenant   string
	Role     string
	MaxDepth int
}

func (e *RoleDepthExceededError) Error() string {
	return fmt.Sprintf("rbac: role depth exceeded: tenant=%s role=%s max_depth=%d", e.Tenant, e.Role, e.MaxDepth)
}
