package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestCache_PutGet(t *testing.T) {
	c := New[string]()

	if _, ok := c.Get("a"); ok {
		t.Fatal("Get() on empty cache should miss")
	}

	c.Put("a", "1")
	if got, ok := c.Get("a"); !ok || got != "1" {
		t.Errorf("Get() = %q, %v; want %q, true", got, ok, "1")
	}

	c.Put("a", "2")
	if got, ok := c.Get("a"); !ok || got != "2" {
		t.Errorf("Get() after overwrite = %q, %v; want %q, true", got, ok, "2")
	}

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_GetOrSet(t *testing.T) {
	c := New[int]()
	calls := 0
	fn := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetOrSet("k", fn)
		if err != nil {
			t.Fatalf("GetOrSet() error = %v", err)
		}
		if got != 42 {
			t.Errorf("GetOrSet() = %d, want 42", got)
		}
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}

	wantErr := errors.New("boom")
	if _, err := c.GetOrSet("other", func() (int, error) { return 0, wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("GetOrSet() error = %v, want %v", err, wantErr)
	}
	if _, ok := c.Get("other"); ok {
		t.Error("failed GetOrSet() must not populate the cache")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New[int]()
	c.Put("a", 1)
	c.Put("b", 2)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", c.Len())
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Put(fmt.Sprintf("key-%d", i%10), i%10)
		}(i)
		go func(i int) {
			defer wg.Done()
			if v, ok := c.Get(fmt.Sprintf("key-%d", i%10)); ok && v != i%10 {
				t.Errorf("Get(key-%d) = %d", i%10, v)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 10 {
		t.Errorf("Len() = %d, want 10", c.Len())
	}
}
