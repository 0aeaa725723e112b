package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	c.Set("a", "hello")
	got, ok := c.Get("a")
	if !ok || got != "hello" {
		t.Fatalf("Get(a) = %q, %v; want hello, true", got, ok)
	}
}

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := NewLRUCache[int](3, time.Minute)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	// Touch k0 so k1 becomes the eviction candidate.
	c.Get("k0")
	c.Set("k3", 3)

	if _, ok := c.Get("k1"); ok {
		t.Fatal("expected k1 evicted")
	}
	if _, ok := c.Get("k0"); !ok {
		t.Fatal("expected k0 retained after access")
	}
	if c.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", c.Size())
	}
}

func TestLRUCacheTTLExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestLRUCachePurge(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	c.Purge()

	if c.Size() != 0 {
		t.Fatalf("Size() after Purge = %d, want 0", c.Size())
	}
	if _, ok := c.Get("k0"); ok {
		t.Fatal("expected miss after Purge")
	}

	// Cache keeps working after a purge.
	c.Set("fresh", 42)
	if got, ok := c.Get("fresh"); !ok || got != 42 {
		t.Fatalf("Get(fresh) = %d, %v; want 42, true", got, ok)
	}
}

func TestLRUCacheCleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)

	if cleaned := c.CleanExpired(); cleaned != 2 {
		t.Fatalf("CleanExpired() = %d, want 2", cleaned)
	}
	if c.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", c.Size())
	}
}

func TestManagerCleanup(t *testing.T) {
	m := NewManager()
	c := NewLRUCache[int](10, 5*time.Millisecond)
	m.Register(c)

	c.Set("a", 1)
	m.StartCleanup(10 * time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	m.Stop()

	if c.Size() != 0 {
		t.Fatalf("expected expired entry cleaned, size = %d", c.Size())
	}
}
