// Package memory provides an in-memory store.Store implementation for
// tests and local development. Every method, seeding and read alike, is
// guarded by the Store's mutex and is safe for concurrent use.
package memory

import (
	"context"
	"sync"

	"github.com/mztlive/rbac/id"
	"github.com/mztlive/rbac/permission"
)

// Store is an in-memory, map-backed store.Store.
type Store struct {
	mu sync.RWMutex

	tenantActive    map[string]bool
	principalActive map[string]bool

	principalRoles map[string][]id.RoleID
	rolePerms      map[string][]permission.Permission
	roleParents    map[string][]id.RoleID

	globalRoles     map[string][]id.GlobalRoleID
	globalRolePerms map[string][]permission.Permission
	superAdmins     map[string]bool
}

// New returns an empty Store, ready for seeding.
func New() *Store {
	return &Store{
		tenantActive:    make(map[string]bool),
		principalActive: make(map[string]bool),
		principalRoles:  make(map[string][]id.RoleID),
		rolePerms:       make(map[string][]permission.Permission),
		roleParents:     make(map[string][]id.RoleID),
		globalRoles:     make(map[string][]id.GlobalRoleID),
		globalRolePerms: make(map[string][]permission.Permission),
		superAdmins:     make(map[string]bool),
	}
}

func tenantKey(tenant id.TenantID) string { return tenant.String() }

func principalKey(tenant id.TenantID, principal id.PrincipalID) string {
	return tenant.String() + "/" + principal.String()
}

func roleKey(tenant id.TenantID, role id.RoleID) string {
	return tenant.String() + "/" + role.String()
}

// SetTenantActive marks tenant as active or inactive.
func (s *Store) SetTenantActive(tenant id.TenantID, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenantActive[tenantKey(tenant)] = active
}

// SetPrincipalActive marks principal as active or inactive within tenant.
func (s *Store) SetPrincipalActive(tenant id.TenantID, principal id.PrincipalID, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principalActive[principalKey(tenant, principal)] = active
}

// AssignRole grants role to principal directly, within tenant.
func (s *Store) AssignRole(tenant id.TenantID, principal id.PrincipalID, role id.RoleID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := principalKey(tenant, principal)
	s.principalRoles[key] = append(s.principalRoles[key], role)
}

// GrantRolePermission attaches perm directly to role within tenant.
func (s *Store) GrantRolePermission(tenant id.TenantID, role id.RoleID, perm permission.Permission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := roleKey(tenant, role)
	s.rolePerms[key] = append(s.rolePerms[key], perm)
}

// SetRoleParents sets role's direct parents within tenant, replacing any
// previously set parents.
func (s *Store) SetRoleParents(tenant id.TenantID, role id.RoleID, parents ...id.RoleID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roleParents[roleKey(tenant, role)] = parents
}

// AssignGlobalRole grants a global role to principal.
func (s *Store) AssignGlobalRole(principal id.PrincipalID, role id.GlobalRoleID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalRoles[principal.String()] = append(s.globalRoles[principal.String()], role)
}

// GrantGlobalRolePermission attaches perm directly to a global role.
func (s *Store) GrantGlobalRolePermission(role id.GlobalRoleID, perm permission.Permission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalRolePerms[role.String()] = append(s.globalRolePerms[role.String()], perm)
}

// SetSuperAdmin marks principal as a super-admin.
func (s *Store) SetSuperAdmin(principal id.PrincipalID, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.superAdmins[principal.String()] = v
}

func (s *Store) TenantActive(_ context.Context, tenant id.TenantID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenantActive[tenantKey(tenant)], nil
}

func (s *Store) PrincipalActive(_ context.Context, tenant id.TenantID, principal id.PrincipalID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principalActive[principalKey(tenant, principal)], nil
}

func (s *Store) PrincipalRoles(_ context.Context, tenant id.TenantID, principal id.PrincipalID) ([]id.RoleID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roles := s.principalRoles[principalKey(tenant, principal)]
	out := make([]id.RoleID, len(roles))
	copy(out, roles)
	return out, nil
}

func (s *Store) RolePermissions(_ context.Context, tenant id.TenantID, role id.RoleID) ([]permission.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	perms := s.rolePerms[roleKey(tenant, role)]
	out := make([]permission.Permission, len(perms))
	copy(out, perms)
	return out, nil
}

func (s *Store) RoleInherits(_ context.Context, tenant id.TenantID, role id.RoleID) ([]id.RoleID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	parents := s.roleParents[roleKey(tenant, role)]
	out := make([]id.RoleID, len(parents))
	copy(out, parents)
	return out, nil
}

func (s *Store) GlobalRoles(_ context.Context, principal id.PrincipalID) ([]id.GlobalRoleID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roles := s.globalRoles[principal.String()]
	out := make([]id.GlobalRoleID, len(roles))
	copy(out, roles)
	return out, nil
}

func (s *Store) GlobalRolePermissions(_ context.Context, role id.GlobalRoleID) ([]permission.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	perms := s.globalRolePerms[role.String()]
	out := make([]permission.Permission, len(perms))
	copy(out, perms)
	return out, nil
}

func (s *Store) IsSuperAdmin(_ context.Context, principal id.PrincipalID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.superAdmins[principal.String()], nil
}
