package oauth2

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryStateStore(t *testing.T) {
	store := NewMemoryStateStore()
	defer store.Close()
	ctx := context.Background()

	states := []string{"state1", "state2", "state3"}

	for _, state := range states {
		if err := store.Store(ctx, state); err != nil {
			t.Fatalf("Store(%q) failed: %v", state, err)
		}
	}

	// first validation succeeds
	for _, state := range states {
		ok, err := store.Validate(ctx, state)
		if err != nil || !ok {
			t.Errorf("Validate(%q) first call = %v, %v; want true, nil", state, ok, err)
		}
	}

	// consume-once
	for _, state := range states {
		ok, err := store.Validate(ctx, state)
		if err != nil || ok {
			t.Errorf("Validate(%q) second call = %v, %v; want false, nil", state, ok, err)
		}
	}
}

func TestMemoryStateStoreUnknownStates(t *testing.T) {
	store := NewMemoryStateStore()
	defer store.Close()

	for _, state := range []string{"nonexistent", "", "never-stored"} {
		ok, err := store.Validate(context.Background(), state)
		if err != nil || ok {
			t.Errorf("Validate(%q) = %v, %v; want false, nil", state, ok, err)
		}
	}
}

func TestMemoryStateStoreExpiry(t *testing.T) {
	store := NewMemoryStateStoreWithTTL(time.Minute)
	defer store.Close()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	_ = store.Store(ctx, "fresh")
	_ = store.Store(ctx, "stale")

	store.now = func() time.Time { return now.Add(2 * time.Minute) }

	ok, err := store.Validate(ctx, "stale")
	if err != nil || ok {
		t.Errorf("Validate(stale) = %v, %v; want false, nil", ok, err)
	}

	// expired entries are consumed too
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}

	store.cleanup()
	if store.Len() != 0 {
		t.Errorf("Len() after cleanup = %d, want 0", store.Len())
	}
}

func TestMemoryStateStoreContextCancelled(t *testing.T) {
	store := NewMemoryStateStore()
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Store(ctx, "state"); !errors.Is(err, context.Canceled) {
		t.Errorf("Store with cancelled context = %v, want context.Canceled", err)
	}
	if _, err := store.Validate(ctx, "state"); !errors.Is(err, context.Canceled) {
		t.Errorf("Validate with cancelled context = %v, want context.Canceled", err)
	}
}

func TestMemoryStateStoreClose(t *testing.T) {
	store := NewMemoryStateStore()

	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if err := store.Store(context.Background(), "state"); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Store after Close = %v, want ErrStoreClosed", err)
	}
}

func TestMemoryStateStoreConcurrency(t *testing.T) {
	store := NewMemoryStateStore()
	defer store.Close()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			state := fmt.Sprintf("state-%d", id)
			if err := store.Store(ctx, state); err != nil {
				t.Errorf("Store(%q) failed: %v", state, err)
				return
			}
			if ok, _ := store.Validate(ctx, state); !ok {
				t.Errorf("Validate(%q) = false", state)
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestMemoryStateStoreSingleWinner(t *testing.T) {
	store := NewMemoryStateStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.Store(ctx, "contested")

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.Validate(ctx, "contested"); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("expected exactly one successful validation, got %d", wins)
	}
}

func BenchmarkMemoryStateStoreStore(b *testing.B) {
	store := NewMemoryStateStore()
	defer store.Close()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Store(ctx, fmt.Sprintf("state-%d", i))
	}
}
