package rbac

import (
	"context"
	"fmt"

	"github.com/mztlive/rbac/id"
	"github.com/mztlive/rbac/permission"
	"github.com/mztlive/rbac/store"
)

// resolveRoles walks the tenant role-inheritance graph depth-first
// (recursively, one parent chain at a time rather than level by level)
// starting from principal's directly assigned roles, collecting the
// union of every role's directly granted permissions, then unions in
// the principal's global-role permissions (an independent, unconditional
// expansion that never participates in the tenant graph's cycle or
// depth accounting).
//
// A role reappearing on the current walk path is a hard failure
// (RoleCycleDetected), never silent deduplication; a role reached again
// through a different path (a diamond) is not a cycle. Exceeding
// maxDepth edges from any starting role is a hard failure
// (RoleDepthExceeded), never silent truncation.
//
// When enableHierarchy is false, only each direct role's own permissions
// are collected; Store.RoleInherits is never called, and no cycle or
// depth accounting happens, since the parent graph is never walked.
func resolveRoles(ctx context.Context, s store.Store, tenant id.TenantID, principal id.PrincipalID, enableHierarchy bool, maxDepth int) (permission.Set, error) {
	directRoles, err := s.PrincipalRoles(ctx, tenant, principal)
	if err != nil {
		return permission.Set{}, &StoreError{Op: "PrincipalRoles", Err: err}
	}

	result := permission.NewSet()

	if !enableHierarchy {
		for _, role := range directRoles {
			perms, err := s.RolePermissions(ctx, tenant, role)
			if err != nil {
				return permission.Set{}, &StoreError{Op: "RolePermissions", Err: fmt.Errorf("role %s: %w", role, err)}
			}
			for _, p := range perms {
				result.Add(p)
			}
		}
	} else {
		visited := make(map[string]struct{}, len(directRoles))
		for _, root := range directRoles {
			if err := walkRole(ctx, s, tenant, root, 0, maxDepth, visited, &result); err != nil {
				return permission.Set{}, err
			}
		}
	}

	globalRoles, err := s.GlobalRoles(ctx, principal)
	if err != nil {
		return permission.Set{}, &StoreError{Op: "GlobalRoles", Err: err}
	}
	for _, g := range globalRoles {
		perms, err := s.GlobalRolePermissions(ctx, g)
		if err != nil {
			return permission.Set{}, &StoreError{Op: "GlobalRolePermissions", Err: err}
		}
		for _, p := range perms {
			result.Add(p)
		}
	}

	return result, nil
}

func walkRole(ctx context.Context, s store.Store, tenant id.TenantID, role id.RoleID, depth, maxDepth int, visited map[string]struct{}, result *permission.Set) error {
	key := role.String()
	if _, seen := visited[key]; seen {
		return &RoleCycleDetectedError{Tenant: tenant.String(), Role: role.String()}
	}
	if depth > maxDepth {
		return &RoleDepthExceededError{Tenant: tenant.String(), Role: role.String(), MaxDepth: maxDepth}
	}
	visited[key] = struct{}{}
	defer delete(visited, key)

	perms, err := s.RolePermissions(ctx, tenant, role)
	if err != nil {
		return &StoreError{Op: "RolePermissions", Err: fmt.Errorf("role %s: %w", role, err)}
	}
	for _, p := range perms {
		result.Add(p)
	}

	parents, err := s.RoleInherits(ctx, tenant, role)
	if err != nil {
		return &StoreError{Op: "RoleInherits", Err: fmt.Errorf("role %s: %w", role, err)}
	}
	for _, parent := range parents {
		if err := walkRole(ctx, s, tenant, parent, depth+1, maxDepth, visited, result); err != nil {
			return err
		}
	}
	return nil
}
