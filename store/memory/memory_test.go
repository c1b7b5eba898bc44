package memory

import (
	"context"
	"testing"

	"github.com/mztlive/rbac/id"
	"github.com/mztlive/rbac/permission"
	"github.com/mztlive/rbac/store"
)

var _ store.Store = (*Store)(nil)

func TestSeedAndRead(t *testing.T) {
	ctx := context.Background()
	s := New()
	tenant := id.MustTenantID("acme")
	principal := id.MustPrincipalID("alice")
	role := id.MustRoleID("editor")

	s.SetTenantActive(tenant, true)
	s.SetPrincipalActive(tenant, principal, true)
	s.AssignRole(tenant, principal, role)
	p, err := permission.Parse("invoice:read")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.GrantRolePermission(tenant, role, p)

	active, err := s.TenantActive(ctx, tenant)
	if err != nil || !active {
		t.Fatalf("TenantActive = %v, %v, want true, nil", active, err)
	}

	roles, err := s.PrincipalRoles(ctx, tenant, principal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roles) != 1 || roles[0] != role {
		t.Fatalf("PrincipalRoles = %v, want [%v]", roles, role)
	}

	perms, err := s.RolePermissions(ctx, tenant, role)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(perms) != 1 || perms[0] != p {
		t.Fatalf("RolePermissions = %v, want [%v]", perms, p)
	}
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	tenant := id.MustTenantID("acme")
	principal := id.MustPrincipalID("alice")
	role := id.MustRoleID("editor")
	s.AssignRole(tenant, principal, role)

	roles, err := s.PrincipalRoles(ctx, tenant, principal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	roles[0] = id.MustRoleID("tampered")

	roles2, err := s.PrincipalRoles(ctx, tenant, principal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roles2[0] != role {
		t.Fatal("mutating a returned slice must not affect store state")
	}
}
