package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is an adjustable time source for expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSetAndGet(t *testing.T) {
	store := New[int]()
	store.Set("k", 42)

	got, ok := store.Get("k")
	if !ok {
		t.Fatal("expected key to be present")
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestGetMissing(t *testing.T) {
	store := New[string]()
	if _, ok := store.Get("missing"); ok {
		t.Error("expected absent for missing key")
	}
}

func TestZeroTTLReadsAsExpired(t *testing.T) {
	store := New[int]()
	store.SetTTL("k", 1, 0)

	if _, ok := store.Get("k"); ok {
		t.Error("zero TTL entry must read as expired")
	}
}

func TestExpiry(t *testing.T) {
	clock := newFakeClock()
	store := New[string](WithClock[string](clock.Now))

	store.SetTTL("k", "v", 5*time.Minute)

	if _, ok := store.Get("k"); !ok {
		t.Fatal("expected entry before expiry")
	}

	clock.Advance(5*time.Minute - time.Second)
	if _, ok := store.Get("k"); !ok {
		t.Error("expected entry just before the TTL elapses")
	}

	clock.Advance(2 * time.Second)
	if _, ok := store.Get("k"); ok {
		t.Error("expected entry to be expired after the TTL elapses")
	}

	// Expired entries are purged on read.
	if store.Len() != 0 {
		t.Errorf("expected purge on read, store still holds %d entries", store.Len())
	}
}

func TestSetOverwrites(t *testing.T) {
	clock := newFakeClock()
	store := New[int](WithClock[int](clock.Now))

	store.SetTTL("k", 1, time.Second)
	clock.Advance(30 * time.Minute)
	store.Set("k", 2)

	got, ok := store.Get("k")
	if !ok || got != 2 {
		t.Errorf("expected overwritten entry 2, got %d (present=%v)", got, ok)
	}
}

func TestDelete(t *testing.T) {
	store := New[int]()
	store.Set("k", 1)
	store.Delete("k")

	if _, ok := store.Get("k"); ok {
		t.Error("expected key to be deleted")
	}

	// Deleting a missing key is a no-op.
	store.Delete("missing")
}

func TestClearByPrefix(t *testing.T) {
	store := New[int]()
	store.Set("p_a", 1)
	store.Set("p_b", 2)
	store.Set("q_c", 3)

	store.ClearByPrefix("p_")

	if _, ok := store.Get("p_a"); ok {
		t.Error("expected p_a to be cleared")
	}
	if _, ok := store.Get("p_b"); ok {
		t.Error("expected p_b to be cleared")
	}
	got, ok := store.Get("q_c")
	if !ok || got != 3 {
		t.Errorf("expected q_c to survive with value 3, got %d (present=%v)", got, ok)
	}
}

func TestClearByEmptyPrefix(t *testing.T) {
	store := New[int]()
	store.Set("a", 1)
	store.Set("b", 2)

	store.ClearByPrefix("")

	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", store.Len())
	}
}

func TestDefaultTTLOption(t *testing.T) {
	clock := newFakeClock()
	store := New[int](WithClock[int](clock.Now), WithDefaultTTL[int](time.Minute))

	store.Set("k", 1)
	clock.Advance(2 * time.Minute)

	if _, ok := store.Get("k"); ok {
		t.Error("expected entry to expire with the overridden default TTL")
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := New[int]()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("user_permissions_%d_%d", n, j)
				store.Set(key, j)
				store.Get(key)
				if j%10 == 0 {
					store.ClearByPrefix(fmt.Sprintf("user_permissions_%d_", n))
				}
				store.Delete(key)
			}
		}(i)
	}
	wg.Wait()
}
