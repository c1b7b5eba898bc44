// Package store defines the read-only data contract the engine needs
// from a backing system: tenant/principal lifecycle state, tenant role
// graphs and their permissions, and global role data. The engine never
// writes through this interface — provisioning roles, assignments, and
// permissions is the host application's job.
package store

import (
	"context"

	"github.com/mztlive/rbac/id"
	"github.com/mztlive/rbac/permission"
)

// TenantLifecycle answers whether a tenant or principal is currently
// active. An inactive tenant denies every check regardless of role data;
// an inactive principal denies every check except when the engine's
// super-admin short-circuit applies, which runs before the principal
// check.
type TenantLifecycle interface {
	// TenantActive reports whether tenant exists and is active.
	TenantActive(ctx context.Context, tenant id.TenantID) (bool, error)

	// PrincipalActive reports whether principal exists and is active
	// within tenant.
	PrincipalActive(ctx context.Context, tenant id.TenantID, principal id.PrincipalID) (bool, error)
}

// TenantRoleData answers the tenant-scoped role-inheritance graph: which
// roles a principal directly holds, what permissions a role directly
// grants, and what roles a role directly inherits from.
type TenantRoleData interface {
	// PrincipalRoles returns the roles directly assigned to principal
	// within tenant. It does not include inherited roles.
	PrincipalRoles(ctx context.Context, tenant id.TenantID, principal id.PrincipalID) ([]id.RoleID, error)

	// RolePermissions returns the permissions directly granted to role.
	RolePermissions(ctx context.Context, tenant id.TenantID, role id.RoleID) ([]permission.Permission, error)

	// RoleInherits returns the roles that role directly inherits from
	// (its immediate parents). An empty slice means role is a leaf.
	RoleInherits(ctx context.Context, tenant id.TenantID, role id.RoleID) ([]id.RoleID, error)
}

// GlobalRoleData answers the tenant-independent role assignment a
// principal may hold, plus the super-admin flag. Global role expansion
// does not participate in the tenant role-inheritance graph: it is a
// flat, unconditional union.
type GlobalRoleData interface {
	// GlobalRoles returns the global roles directly assigned to
	// principal, independent of tenant.
	GlobalRoles(ctx context.Context, principal id.PrincipalID) ([]id.GlobalRoleID, error)

	// GlobalRolePermissions returns the permissions directly granted to
	// a global role.
	GlobalRolePermissions(ctx context.Context, role id.GlobalRoleID) ([]permission.Permission, error)

	// IsSuperAdmin reports whether principal is a super-admin, bypassing
	// all permission resolution.
	IsSuperAdmin(ctx context.Context, principal id.PrincipalID) (bool, error)
}

// Store is the composite read-only contract the engine requires.
type Store interface {
	TenantLifecycle
	TenantRoleData
	GlobalRoleData
}
