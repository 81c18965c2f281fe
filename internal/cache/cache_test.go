package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheGetSet(t *testing.T) {
	c := NewCache(5 * time.Minute)
	defer c.Stop()

	if _, found := c.Get("txt:abc"); found {
		t.Fatal("empty cache should miss")
	}

	c.Set("txt:abc", []byte("report"))
	got, found := c.Get("txt:abc")
	if !found || string(got.([]byte)) != "report" {
		t.Fatalf("expected cached value, got %v %v", got, found)
	}

	c.Delete("txt:abc")
	if _, found := c.Get("txt:abc"); found {
		t.Error("deleted key should miss")
	}

	stats := c.Stats()
	if stats.HitCount != 1 || stats.MissCount != 2 || stats.ItemCount != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestCacheTTLExpiration(t *testing.T) {
	c := NewCache(50 * time.Millisecond)
	defer c.Stop()

	c.Set("csv:1", "value")
	if _, found := c.Get("csv:1"); !found {
		t.Fatal("item should exist immediately after setting")
	}

	time.Sleep(100 * time.Millisecond)

	if _, found := c.Get("csv:1"); found {
		t.Error("item should have expired")
	}
}

func TestCacheRemoveExpired(t *testing.T) {
	c := NewCache(time.Minute)
	defer c.Stop()

	c.Set("a", 1)
	c.Set("b", 2)

	if removed := c.removeExpired(time.Now()); removed != 0 {
		t.Errorf("nothing should expire yet, removed %d", removed)
	}
	if removed := c.removeExpired(time.Now().Add(2 * time.Minute)); removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if c.Size() != 0 {
		t.Errorf("cache should be empty, size %d", c.Size())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache(5 * time.Minute)
	defer c.Stop()

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("key_%d_%d", id, i%10)
				if i%2 == 0 {
					c.Set(key, i)
				} else {
					c.Get(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Size() > 100 {
		t.Errorf("expected at most 100 keys, got %d", c.Size())
	}
}

func TestCacheStopIsIdempotent(t *testing.T) {
	c := NewCache(time.Minute)
	c.Stop()
	c.Stop()
}
