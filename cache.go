package rbac

import (
	"context"

	"github.com/mztlive/rbac/id"
	"github.com/mztlive/rbac/permission"
)

// CacheKey identifies a cached, resolved permission set.
type CacheKey struct {
	Tenant    id.TenantID
	Principal id.PrincipalID
}

// Resolver computes the value for a cache miss. It is the engine's role
// resolution step, injected so the cache package has no dependency on
// the store.
type Resolver func(ctx context.Context) (permission.Set, error)

// Cache resolves and caches a principal's effective permission set
// within a tenant. Implementations must de-duplicate concurrent misses
// for the same key: only one Resolver call per key should be in flight
// at a time, with every other concurrent caller for that key receiving
// the same result.
type Cache interface {
	// Get returns the cached set for key, if present and unexpired.
	Get(ctx context.Context, key CacheKey) (permission.Set, bool)

	// Fill stores set for key, starting (or restarting) its TTL.
	Fill(ctx context.Context, key CacheKey, set permission.Set)

	// GetOrLoad returns the cached set for key, calling resolve to
	// compute it on a miss. Concurrent GetOrLoad calls for the same key
	// share one resolve invocation; a caller whose ctx is canceled while
	// waiting returns ctx.Err() without aborting the shared resolve for
	// other waiters.
	GetOrLoad(ctx context.Context, key CacheKey, resolve Resolver) (permission.Set, error)

	// InvalidatePrincipal evicts the cached set for a single principal
	// within tenant.
	InvalidatePrincipal(ctx context.Context, tenant id.TenantID, principal id.PrincipalID)

	// InvalidateRole evicts every cached set within tenant, since the
	// cache does not track which principals' resolved sets depend on a
	// given role.
	InvalidateRole(ctx context.Context, tenant id.TenantID, role id.RoleID)

	// InvalidateTenant evicts every cached set within tenant.
	InvalidateTenant(ctx context.Context, tenant id.TenantID)
}
