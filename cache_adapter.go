package rbac

import (
	"context"

	"github.com/mztlive/rbac/cache"
	"github.com/mztlive/rbac/id"
	"github.com/mztlive/rbac/permission"
)

// shardedCacheAdapter adapts cache.Sharded (which has no dependency on
// this package, to avoid an import cycle) to the Cache interface this
// package exposes to callers.
type shardedCacheAdapter struct {
	c *cache.Sharded
}

// newDefaultCache builds the engine's default Cache from a Config.
func newDefaultCache(cfg Config) Cache {
	return &shardedCacheAdapter{c: cache.New(
		cache.WithShards(cfg.CacheShards),
		cache.WithTTL(cfg.CacheTTL),
		cache.WithShardCapacity(cfg.CacheShardCapacity),
	)}
}

func (a *shardedCacheAdapter) Get(ctx context.Context, key CacheKey) (permission.Set, bool) {
	return a.c.Get(ctx, cache.Key{Tenant: key.Tenant, Principal: key.Principal})
}

func (a *shardedCacheAdapter) Fill(ctx context.Context, key CacheKey, set permission.Set) {
	a.c.Fill(ctx, cache.Key{Tenant: key.Tenant, Principal: key.Principal}, set)
}

func (a *shardedCacheAdapter) GetOrLoad(ctx context.Context, key CacheKey, resolve Resolver) (permission.Set, error) {
	return a.c.GetOrLoad(ctx, cache.Key{Tenant: key.Tenant, Principal: key.Principal}, func(ctx context.Context) (permission.Set, error) {
		return resolve(ctx)
	})
}

func (a *shardedCacheAdapter) InvalidatePrincipal(ctx context.Context, tenant id.TenantID, principal id.PrincipalID) {
	a.c.InvalidatePrincipal(ctx, tenant, principal)
}

func (a *shardedCacheAdapter) InvalidateRole(ctx context.Context, tenant id.TenantID, role id.RoleID) {
	a.c.InvalidateRole(ctx, tenant, role)
}

func (a *shardedCacheAdapter) InvalidateTenant(ctx context.Context, tenant id.TenantID) {
	a.c.InvalidateTenant(ctx, tenant)
}
