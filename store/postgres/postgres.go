// Package postgres implements store.Store against a Postgres schema
// using the raw pgx/v5 driver, with no ORM layer in between.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mztlive/rbac/id"
	"github.com/mztlive/rbac/permission"
)

// Store implements store.Store against the schema created by Schema.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing pgxpool.Pool. The caller owns the pool's
// lifecycle (Close).
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Schema is the DDL this Store expects. Callers run migrations with
// whatever tool their application already uses; this is supplied so a
// fresh database can be bootstrapped directly against it.
const Schema = `
CREATE TABLE IF NOT EXISTS rbac_tenants (
	tenant_id   TEXT PRIMARY KEY,
	active      BOOLEAN NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS rbac_principals (
	tenant_id     TEXT NOT NULL REFERENCES rbac_tenants(tenant_id),
	principal_id  TEXT NOT NULL,
	active        BOOLEAN NOT NULL DEFAULT true,
	super_admin   BOOLEAN NOT NULL DEFAULT false,
	PRIMARY KEY (tenant_id, principal_id)
);

CREATE TABLE IF NOT EXISTS rbac_principal_roles (
	tenant_id     TEXT NOT NULL,
	principal_id  TEXT NOT NULL,
	role_id       TEXT NOT NULL,
	PRIMARY KEY (tenant_id, principal_id, role_id)
);

CREATE TABLE IF NOT EXISTS rbac_role_permissions (
	tenant_id  TEXT NOT NULL,
	role_id    TEXT NOT NULL,
	resource   TEXT NOT NULL,
	action     TEXT NOT NULL,
	PRIMARY KEY (tenant_id, role_id, resource, action)
);

CREATE TABLE IF NOT EXISTS rbac_role_parents (
	tenant_id   TEXT NOT NULL,
	role_id     TEXT NOT NULL,
	parent_id   TEXT NOT NULL,
	PRIMARY KEY (tenant_id, role_id, parent_id)
);

CREATE TABLE IF NOT EXISTS rbac_global_roles (
	principal_id  TEXT NOT NULL,
	role_id       TEXT NOT NULL,
	PRIMARY KEY (principal_id, role_id)
);

CREATE TABLE IF NOT EXISTS rbac_global_role_permissions (
	role_id    TEXT NOT NULL,
	resource   TEXT NOT NULL,
	action     TEXT NOT NULL,
	PRIMARY KEY (role_id, resource, action)
);
`

func wrap(op string, err error) error {
	return fmt.Errorf("rbac/store/postgres: %s: %w", op, err)
}

func (s *Store) TenantActive(ctx context.Context, tenant id.TenantID) (bool, error) {
	var active bool
	err := s.pool.QueryRow(ctx,
		`SELECT active FROM rbac_tenants WHERE tenant_id = $1`, tenant.String(),
	).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrap("TenantActive", err)
	}
	return active, nil
}

func (s *Store) PrincipalActive(ctx context.Context, tenant id.TenantID, principal id.PrincipalID) (bool, error) {
	var active bool
	err := s.pool.QueryRow(ctx,
		`SELECT active FROM rbac_principals WHERE tenant_id = $1 AND principal_id = $2`,
		tenant.String(), principal.String(),
	).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrap("PrincipalActive", err)
	}
	return active, nil
}

func (s *Store) PrincipalRoles(ctx context.Context, tenant id.TenantID, principal id.PrincipalID) ([]id.RoleID, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT role_id FROM rbac_principal_roles WHERE tenant_id = $1 AND principal_id = $2`,
		tenant.String(), principal.String(),
	)
	if err != nil {
		return nil, wrap("PrincipalRoles", err)
	}
	defer rows.Close()

	var out []id.RoleID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, wrap("PrincipalRoles", err)
		}
		rid, err := id.NewRoleID(raw)
		if err != nil {
			return nil, wrap("PrincipalRoles", err)
		}
		out = append(out, rid)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("PrincipalRoles", err)
	}
	return out, nil
}

func (s *Store) RolePermissions(ctx context.Context, tenant id.TenantID, role id.RoleID) ([]permission.Permission, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT resource, action FROM rbac_role_permissions WHERE tenant_id = $1 AND role_id = $2`,
		tenant.String(), role.String(),
	)
	if err != nil {
		return nil, wrap("RolePermissions", err)
	}
	defer rows.Close()
	return scanPermissions(rows, "RolePermissions")
}

func (s *Store) RoleInherits(ctx context.Context, tenant id.TenantID, role id.RoleID) ([]id.RoleID, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT parent_id FROM rbac_role_parents WHERE tenant_id = $1 AND role_id = $2`,
		tenant.String(), role.String(),
	)
	if err != nil {
		return nil, wrap("RoleInherits", err)
	}
	defer rows.Close()

	var out []id.RoleID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, wrap("RoleInherits", err)
		}
		rid, err := id.NewRoleID(raw)
		if err != nil {
			return nil, wrap("RoleInherits", err)
		}
		out = append(out, rid)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("RoleInherits", err)
	}
	return out, nil
}

func (s *Store) GlobalRoles(ctx context.Context, principal id.PrincipalID) ([]id.GlobalRoleID, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT role_id FROM rbac_global_roles WHERE principal_id = $1`, principal.String(),
	)
	if err != nil {
		return nil, wrap("GlobalRoles", err)
	}
	defer rows.Close()

	var out []id.GlobalRoleID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, wrap("GlobalRoles", err)
		}
		gid, err := id.NewGlobalRoleID(raw)
		if err != nil {
			return nil, wrap("GlobalRoles", err)
		}
		out = append(out, gid)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("GlobalRoles", err)
	}
	return out, nil
}

func (s *Store) GlobalRolePermissions(ctx context.Context, role id.GlobalRoleID) ([]permission.Permission, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT resource, action FROM rbac_global_role_permissions WHERE role_id = $1`, role.String(),
	)
	if err != nil {
		return nil, wrap("GlobalRolePermissions", err)
	}
	defer rows.Close()
	return scanPermissions(rows, "GlobalRolePermissions")
}

func (s *Store) IsSuperAdmin(ctx context.Context, principal id.PrincipalID) (bool, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT super_admin FROM rbac_principals WHERE principal_id = $1 AND super_admin = true LIMIT 1`,
		principal.String(),
	)
	if err != nil {
		return false, wrap("IsSuperAdmin", err)
	}
	defer rows.Close()
	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, wrap("IsSuperAdmin", err)
	}
	return found, nil
}

func scanPermissions(rows pgx.Rows, op string) ([]permission.Permission, error) {
	var out []permission.Permission
	for rows.Next() {
		var resource, action string
		if err := rows.Scan(&resource, &action); err != nil {
			return nil, wrap(op, err)
		}
		p, err := permission.New(resource, action)
		if err != nil {
			return nil, wrap(op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}
