package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mztlive/rbac/id"
	"github.com/mztlive/rbac/permission"
)

func testKey(t *testing.T) Key {
	t.Helper()
	return Key{Tenant: id.MustTenantID("acme"), Principal: id.MustPrincipalID("alice")}
}

func testSet(t *testing.T) permission.Set {
	t.Helper()
	p, err := permission.Parse("invoice:read")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return permission.NewSet(p)
}

func TestShardedGetMissThenFillHit(t *testing.T) {
	ctx := context.Background()
	c := New()
	key := testKey(t)

	if _, ok := c.Get(ctx, key); ok {
		t.Fatal("expected miss before Fill")
	}
	c.Fill(ctx, key, testSet(t))
	set, ok := c.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit after Fill")
	}
	if set.Len() != 1 {
		t.Fatalf("set.Len() = %d, want 1", set.Len())
	}
}

func TestShardedTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := New(WithTTL(5 * time.Millisecond))
	key := testKey(t)
	c.Fill(ctx, key, testSet(t))

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(ctx, key); ok {
		t.Fatal("expected entry to have expired")
	}
}

func TestShardedLRUEviction(t *testing.T) {
	ctx := context.Background()
	c := New(WithShards(1), WithShardCapacity(2))

	keys := make([]Key, 3)
	for i := range keys {
		keys[i] = Key{Tenant: id.MustTenantID("acme"), Principal: id.MustPrincipalID(string(rune('a' + i)))}
		c.Fill(ctx, keys[i], testSet(t))
	}

	if _, ok := c.Get(ctx, keys[0]); ok {
		t.Fatal("expected the least recently used entry to have been evicted")
	}
	if _, ok := c.Get(ctx, keys[2]); !ok {
		t.Fatal("expected the most recently filled entry to remain")
	}
}

func TestGetOrLoadDeduplicatesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	c := New()
	key := testKey(t)

	var calls int64
	resolve := func(ctx context.Context) (permission.Set, error) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return testSet(t), nil
	}

	const n = 10
	done := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := c.GetOrLoad(ctx, key, resolve)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("resolve called %d times, want 1", got)
	}
}

func TestGetOrLoadCanceledCallerReturnsErrButSharedCallSurvives(t *testing.T) {
	c := New()
	key := testKey(t)

	release := make(chan struct{})
	resolve := func(ctx context.Context) (permission.Set, error) {
		<-release
		return testSet(t), nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErrCh := make(chan error, 1)
	go func() {
		_, err := c.GetOrLoad(leaderCtx, key, resolve)
		leaderErrCh <- err
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	if err := <-leaderErrCh; err == nil {
		t.Fatal("expected canceled leader to receive an error")
	}

	close(release)
	time.Sleep(10 * time.Millisecond)

	set, ok := c.Get(context.Background(), key)
	if !ok {
		t.Fatal("expected the detached resolve to still populate the cache")
	}
	if set.Len() != 1 {
		t.Fatalf("set.Len() = %d, want 1", set.Len())
	}
}

func TestInvalidateTenantClearsOnlyThatTenant(t *testing.T) {
	ctx := context.Background()
	c := New()
	keyA := Key{Tenant: id.MustTenantID("acme"), Principal: id.MustPrincipalID("alice")}
	keyB := Key{Tenant: id.MustTenantID("globex"), Principal: id.MustPrincipalID("bob")}
	c.Fill(ctx, keyA, testSet(t))
	c.Fill(ctx, keyB, testSet(t))

	c.InvalidateTenant(ctx, id.MustTenantID("acme"))

	if _, ok := c.Get(ctx, keyA); ok {
		t.Fatal("expected acme entry to be invalidated")
	}
	if _, ok := c.Get(ctx, keyB); !ok {
		t.Fatal("expected globex entry to survive")
	}
}
