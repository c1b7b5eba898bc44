// Package rbac implements a multi-tenant role-based authorization
// engine. It answers two questions against a pluggable store of tenant
// and global role data: whether a principal may perform a permission
// (Authorize), and what scope a principal holds over a resource type
// (Scope).
//
// The engine resolves a principal's effective permission set from the
// principal's tenant roles (walking the role-inheritance graph, bounded
// by depth and guarded against cycles, only when
// Config.EnableRoleHierarchy is set) and unioning in any global roles
// the principal holds, then matches the requested permission against
// that set, honoring exact grants always and whole-segment wildcards
// only when Config.EnableWildcard is set. A sharded, single-flight,
// TTL+LRU cache sits in front of permission-set resolution so repeated
// checks for the same tenant/principal avoid re-walking the store.
package rbac
