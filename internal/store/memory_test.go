package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[*int]()

	v := 7
	if err := s.Save(ctx, "a", &v); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil || got != &v {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if _, err := s.Get(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v", err)
	}
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprint(i % 10)
			_ = s.Save(ctx, id, i)
			_, _ = s.Get(ctx, id)
		}(i)
	}
	wg.Wait()
	if s.Len() != 10 {
		t.Errorf("Len = %d, want 10", s.Len())
	}
}

func TestMemoryStoreRange(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[int]()
	for i := 0; i < 5; i++ {
		_ = s.Save(ctx, fmt.Sprint(i), i)
	}

	sum := 0
	s.Range(func(id string, v int) bool {
		if id != fmt.Sprint(v) {
			t.Errorf("id %q holds %d", id, v)
		}
		sum += v
		return true
	})
	if sum != 10 {
		t.Errorf("sum = %d, want 10", sum)
	}

	visited := 0
	s.Range(func(string, int) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("Range visited %d values after stop, want 1", visited)
	}
}
