package rbac

import (
	"context"
	"log/slog"

	"github.com/mztlive/rbac/id"
	"github.com/mztlive/rbac/permission"
	"github.com/mztlive/rbac/store"
)

// Decision is the outcome of an Authorize call.
type Decision int

const (
	// DecisionDeny means the principal may not perform the permission.
	DecisionDeny Decision = iota
	// DecisionAllow means the principal may perform the permission.
	DecisionAllow
)

// Allowed reports whether d is DecisionAllow.
func (d Decision) Allowed() bool { return d == DecisionAllow }

func (d Decision) String() string {
	if d == DecisionAllow {
		return "allow"
	}
	return "deny"
}

// ScopeKind distinguishes the two possible Scope results.
type ScopeKind int

const (
	// ScopeNone means the principal has no access to the resource type.
	ScopeNone ScopeKind = iota
	// ScopeTenantOnly means the principal has access within a single
	// named tenant.
	ScopeTenantOnly
)

// Scope is the outcome of a Scope call: either no access, or access
// bounded to one tenant. Cross-tenant scope does not exist in this
// engine — every scope result names at most the tenant the query was
// made against.
type Scope struct {
	Kind   ScopeKind
	Tenant id.TenantID
}

// Engine is the central authorization engine: it resolves a principal's
// effective permission set from the configured store (through the
// configured cache) and answers Authorize/Scope queries against it.
type Engine struct {
	store  store.Store
	cache  Cache
	logger *slog.Logger
	config Config
}

// NewEngine constructs an Engine. WithStore is required; every other
// option falls back to a default.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: slog.Default(),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		return nil, ErrStoreRequired
	}
	if e.cache == nil {
		e.cache = newDefaultCache(e.config)
	}
	return e, nil
}

// Authorize reports whether principal may perform required within
// tenant. The decision follows a fixed short-circuit order: tenant
// activity, then (if enabled) super-admin status, then principal
// activity, then the resolved and cached permission set.
func (e *Engine) Authorize(ctx context.Context, tenant id.TenantID, principal id.PrincipalID, required permission.Permission) (Decision, error) {
	active, err := e.store.TenantActive(ctx, tenant)
	if err != nil {
		return DecisionDeny, &StoreError{Op: "TenantActive", Err: err}
	}
	if !active {
		e.logger.Debug("rbac: deny, tenant inactive", slog.String("tenant", tenant.String()))
		return DecisionDeny, nil
	}

	if e.config.EnableSuperAdmin {
		super, err := e.store.IsSuperAdmin(ctx, principal)
		if err != nil {
			return DecisionDeny, &StoreError{Op: "IsSuperAdmin", Err: err}
		}
		if super {
			e.logger.Debug("rbac: allow, super-admin short-circuit", slog.String("principal", principal.String()))
			return DecisionAllow, nil
		}
	}

	principalActive, err := e.store.PrincipalActive(ctx, tenant, principal)
	if err != nil {
		return DecisionDeny, &StoreError{Op: "PrincipalActive", Err: err}
	}
	if !principalActive {
		e.logger.Debug("rbac: deny, principal inactive", slog.String("principal", principal.String()))
		return DecisionDeny, nil
	}

	set, err := e.resolvedSet(ctx, tenant, principal)
	if err != nil {
		return DecisionDeny, err
	}

	if authorizeSet(set, required, e.config.EnableWildcard) {
		e.logger.Debug("rbac: allow, permission matched",
			slog.String("tenant", tenant.String()),
			slog.String("principal", principal.String()),
			slog.String("permission", required.String()))
		return DecisionAllow, nil
	}
	e.logger.Debug("rbac: deny, no matching permission",
		slog.String("tenant", tenant.String()),
		slog.String("principal", principal.String()),
		slog.String("permission", required.String()))
	return DecisionDeny, nil
}

// Scope reports what access principal has over resource within tenant.
// It shares Authorize's tenant/super-admin/principal ordering, testing
// only whether the resolved set covers the resource at all (any action),
// not a specific action.
func (e *Engine) Scope(ctx context.Context, tenant id.TenantID, principal id.PrincipalID, resource id.ResourceName) (Scope, error) {
	active, err := e.store.TenantActive(ctx, tenant)
	if err != nil {
		return Scope{}, &StoreError{Op: "TenantActive", Err: err}
	}
	if !active {
		return Scope{Kind: ScopeNone}, nil
	}

	if e.config.EnableSuperAdmin {
		super, err := e.store.IsSuperAdmin(ctx, principal)
		if err != nil {
			return Scope{}, &StoreError{Op: "IsSuperAdmin", Err: err}
		}
		if super {
			return Scope{Kind: ScopeTenantOnly, Tenant: tenant}, nil
		}
	}

	principalActive, err := e.store.PrincipalActive(ctx, tenant, principal)
	if err != nil {
		return Scope{}, &StoreError{Op: "PrincipalActive", Err: err}
	}
	if !principalActive {
		return Scope{Kind: ScopeNone}, nil
	}

	set, err := e.resolvedSet(ctx, tenant, principal)
	if err != nil {
		return Scope{}, err
	}

	if coversResource(set, resource.String(), e.config.EnableWildcard) {
		return Scope{Kind: ScopeTenantOnly, Tenant: tenant}, nil
	}
	return Scope{Kind: ScopeNone}, nil
}

func (e *Engine) resolvedSet(ctx context.Context, tenant id.TenantID, principal id.PrincipalID) (permission.Set, error) {
	key := CacheKey{Tenant: tenant, Principal: principal}
	return e.cache.GetOrLoad(ctx, key, func(ctx context.Context) (permission.Set, error) {
		return resolveRoles(ctx, e.store, tenant, principal, e.config.EnableRoleHierarchy, e.config.MaxRoleDepth)
	})
}

// InvalidatePrincipal evicts the cached permission set for a single
// principal within tenant. Call this after changing a principal's
// direct role assignments.
func (e *Engine) InvalidatePrincipal(ctx context.Context, tenant id.TenantID, principal id.PrincipalID) {
	e.cache.InvalidatePrincipal(ctx, tenant, principal)
}

// InvalidateRole evicts every cached permission set within tenant. Call
// this after changing a role's permissions or inheritance edges, since
// the cache cannot tell which cached principals depend on that role.
func (e *Engine) InvalidateRole(ctx context.Context, tenant id.TenantID, role id.RoleID) {
	e.cache.InvalidateRole(ctx, tenant, role)
}

// InvalidateTenant evicts every cached permission set within tenant.
func (e *Engine) InvalidateTenant(ctx context.Context, tenant id.TenantID) {
	e.cache.InvalidateTenant(ctx, tenant)
}
