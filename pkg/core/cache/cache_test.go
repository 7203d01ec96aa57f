package cache

import (
	"errors"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(maxItems int, ttl time.Duration) (*Cache[string], *clock) {
	clk := &clock{t: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	c := New[string](Config{MaxItems: maxItems, TTL: ttl})
	c.now = clk.now
	return c, clk
}

func TestCache_GetSet(t *testing.T) {
	c, _ := newTestCache(10, 0)
	defer c.Close()

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}

	c.Set("a", "1")
	c.Set("a", "2")
	if v, ok := c.Get("a"); !ok || v != "2" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Get after Delete should miss")
	}
}

func TestCache_LRUEviction(t *testing.T) {
	c, _ := newTestCache(2, 0)
	defer c.Close()

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a") // b is now least recently used
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, key := range []string{"a", "c"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("%s should still be cached", key)
		}
	}
}

func TestCache_TTL(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	defer c.Close()

	c.Set("short", "x")
	c.SetWithTTL("forever", "y", 0)

	clk.t = clk.t.Add(2 * time.Minute)

	if _, ok := c.Get("short"); ok {
		t.Error("short should have expired")
	}
	if _, ok := c.Get("forever"); !ok {
		t.Error("forever should not expire")
	}

	c.SetWithTTL("other", "z", time.Second)
	clk.t = clk.t.Add(time.Minute)
	c.cleanup()
	if c.Size() != 1 {
		t.Errorf("Size() after cleanup = %d, want 1", c.Size())
	}
}

func TestCache_GetOrSet(t *testing.T) {
	c, _ := newTestCache(10, 0)
	defer c.Close()

	calls := 0
	compute := func() (string, error) {
		calls++
		return "tree", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrSet("k", compute)
		if err != nil || v != "tree" {
			t.Fatalf("GetOrSet() = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}

	failing := errors.New("syntax")
	if _, err := c.GetOrSet("bad", func() (string, error) { return "", failing }); err != failing {
		t.Errorf("GetOrSet() error = %v", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("errors must not be cached")
	}
}

func TestCache_Stats(t *testing.T) {
	c, _ := newTestCache(10, 0)
	defer c.Close()

	c.Set("a", "1")
	c.Get("a")
	c.Get("a")
	c.Get("b")
	c.Clear()

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.Size != 0 {
		t.Errorf("Stats() = %+v", s)
	}
	if s.HitRate < 66.6 || s.HitRate > 66.7 {
		t.Errorf("HitRate = %v", s.HitRate)
	}
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c := New[int](DefaultConfig())
	c.Close()
	c.Close()
}
