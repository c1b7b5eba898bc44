// Package cache implements a sharded, single-flight, TTL+LRU Cache for
// resolved permission sets.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/mztlive/rbac/id"
	"github.com/mztlive/rbac/permission"
)

// DefaultShards is the default number of cache shards.
const DefaultShards = 16

// DefaultTTL is the default time a resolved set stays valid.
const DefaultTTL = 30 * time.Second

// DefaultShardCapacity is the default number of entries a shard's LRU
// retains before evicting.
const DefaultShardCapacity = 1024

// Key mirrors rbac.CacheKey without importing the root package.
type Key struct {
	Tenant    id.TenantID
	Principal id.PrincipalID
}

// Resolver computes the value for a cache miss.
type Resolver func(ctx context.Context) (permission.Set, error)

// Sharded is a sharded, single-flight, TTL+LRU cache of resolved
// permission sets, keyed by (tenant, principal).
type Sharded struct {
	shards   []*shard
	mask     uint64
	ttl      time.Duration
	capacity int
}

// Option configures a Sharded cache.
type Option func(*Sharded)

// WithShards sets the shard count, which must be a power of two.
// Non-power-of-two values are rounded up to the next power of two.
func WithShards(n int) Option {
	return func(s *Sharded) { s.shards = make([]*shard, nextPowerOfTwo(n)) }
}

// WithTTL sets the per-entry time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(s *Sharded) { s.ttl = ttl }
}

// WithShardCapacity sets the per-shard LRU capacity.
func WithShardCapacity(n int) Option {
	return func(s *Sharded) { s.capacity = n }
}

// New constructs a Sharded cache with the given options applied over the
// package defaults.
func New(opts ...Option) *Sharded {
	s := &Sharded{
		shards:   make([]*shard, DefaultShards),
		ttl:      DefaultTTL,
		capacity: DefaultShardCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mask = uint64(len(s.shards) - 1)
	for i := range s.shards {
		s.shards[i] = newShard()
	}
	return s
}

func nextPowerOfTwo(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (s *Sharded) shardFor(key Key) *shard {
	h := fnv64a(key.Tenant.String() + "\x00" + key.Principal.String())
	return s.shards[h&s.mask]
}

func fnv64a(s string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

type entryValue struct {
	key       Key
	set       permission.Set
	expiresAt time.Time
}

type call struct {
	done chan struct{}
	set  permission.Set
	err  error
}

type shard struct {
	mu       sync.Mutex
	order    *list.List
	items    map[Key]*list.Element
	inflight map[Key]*call
}

func newShard() *shard {
	return &shard{
		order:    list.New(),
		items:    make(map[Key]*list.Element),
		inflight: make(map[Key]*call),
	}
}

// Get returns the cached set for key, if present and unexpired.
func (s *Sharded) Get(_ context.Context, key Key) (permission.Set, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.getLocked(key)
}

func (sh *shard) getLocked(key Key) (permission.Set, bool) {
	el, ok := sh.items[key]
	if !ok {
		return permission.Set{}, false
	}
	ev := el.Value.(*entryValue)
	if time.Now().After(ev.expiresAt) {
		sh.order.Remove(el)
		delete(sh.items, key)
		return permission.Set{}, false
	}
	sh.order.MoveToFront(el)
	return ev.set, true
}

// Fill stores set for key, starting its TTL, using the cache's own TTL
// and shard capacity settings.
func (s *Sharded) Fill(_ context.Context, key Key, set permission.Set) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.fillLocked(key, set, s.ttl, s.capacity)
}

func (sh *shard) fillLocked(key Key, set permission.Set, ttl time.Duration, capacity int) {
	ev := &entryValue{key: key, set: set, expiresAt: time.Now().Add(ttl)}
	if el, ok := sh.items[key]; ok {
		el.Value = ev
		sh.order.MoveToFront(el)
		return
	}
	el := sh.order.PushFront(ev)
	sh.items[key] = el
	for sh.order.Len() > capacity {
		oldest := sh.order.Back()
		if oldest == nil {
			break
		}
		sh.order.Remove(oldest)
		delete(sh.items, oldest.Value.(*entryValue).key)
	}
}

// GetOrLoad returns the cached set for key, computing it via resolve on
// a miss. Concurrent callers for the same key share one resolve
// invocation. If a caller's ctx is canceled while waiting, that caller
// returns ctx.Err() immediately; the shared resolve keeps running
// (detached from every individual caller's context) and still publishes
// its result to the cache for any other waiter and for future callers.
func (s *Sharded) GetOrLoad(ctx context.Context, key Key, resolve Resolver) (permission.Set, error) {
	sh := s.shardFor(key)

	sh.mu.Lock()
	if set, ok := sh.getLocked(key); ok {
		sh.mu.Unlock()
		return set, nil
	}
	if c, ok := sh.inflight[key]; ok {
		sh.mu.Unlock()
		return waitFor(ctx, c)
	}

	c := &call{done: make(chan struct{})}
	sh.inflight[key] = c
	sh.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	go func() {
		set, err := resolve(detached)
		sh.mu.Lock()
		delete(sh.inflight, key)
		if err == nil {
			sh.fillLocked(key, set, s.ttl, s.capacity)
		}
		sh.mu.Unlock()
		c.set, c.err = set, err
		close(c.done)
	}()

	return waitFor(ctx, c)
}

func waitFor(ctx context.Context, c *call) (permission.Set, error) {
	select {
	case <-c.done:
		return c.set, c.err
	case <-ctx.Done():
		return permission.Set{}, ctx.Err()
	}
}

// InvalidatePrincipal evicts the cached set for a single principal
// within tenant.
func (s *Sharded) InvalidatePrincipal(_ context.Context, tenant id.TenantID, principal id.PrincipalID) {
	key := Key{Tenant: tenant, Principal: principal}
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if el, ok := sh.items[key]; ok {
		sh.order.Remove(el)
		delete(sh.items, key)
	}
}

// InvalidateRole evicts every cached set within tenant, since the cache
// does not track which principals' resolved sets depend on a given
// role.
func (s *Sharded) InvalidateRole(ctx context.Context, tenant id.TenantID, _ id.RoleID) {
	s.InvalidateTenant(ctx, tenant)
}

// InvalidateTenant evicts every cached set within tenant, across every
// shard.
func (s *Sharded) InvalidateTenant(_ context.Context, tenant id.TenantID) {
	for _, sh := range s.shards {
		sh.mu.Lock()
		for key, el := range sh.items {
			if key.Tenant == tenant {
				sh.order.Remove(el)
				delete(sh.items, key)
			}
		}
		sh.mu.Unlock()
	}
}
