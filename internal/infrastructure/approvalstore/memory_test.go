package approvalstore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"tutor-server/chat-api/internal/domain/approval"
	"tutor-server/chat-api/internal/infrastructure/approvalstore"
)

func TestMemory_PutGetRemove(t *testing.T) {
	store := approvalstore.NewMemory(time.Hour)

	if _, ok := store.Get("missing"); ok {
		t.Error("Get on empty store should report no decision")
	}

	store.Put("a1", true)
	approved, ok := store.Get("a1")
	if !ok || !approved {
		t.Errorf("Get(a1) = (%v, %v), want (true, true)", approved, ok)
	}

	store.Put("a2", false)
	approved, ok = store.Get("a2")
	if !ok || approved {
		t.Errorf("Get(a2) = (%v, %v), want (false, true)", approved, ok)
	}

	store.Remove("a1")
	if _, ok := store.Get("a1"); ok {
		t.Error("Get after Remove should report no decision")
	}
}

func TestMemory_ExpiredEntriesAreSwept(t *testing.T) {
	store := approvalstore.NewMemory(10 * time.Millisecond)
	store.Put("old", true)

	time.Sleep(25 * time.Millisecond)
	if _, ok := store.Get("old"); ok {
		t.Error("expired entry should be gone")
	}
}

func TestMemory_ConcurrentDistinctIDs(t *testing.T) {
	store := approvalstore.NewMemory(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Put(fmt.Sprintf("id-%d", i), i%2 == 0)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		approved, ok := store.Get(fmt.Sprintf("id-%d", i))
		if !ok {
			t.Fatalf("missing decision for id-%d", i)
		}
		if approved != (i%2 == 0) {
			t.Errorf("id-%d clobbered: got %v", i, approved)
		}
	}
}

func TestWait_DecisionArrives(t *testing.T) {
	store := approvalstore.NewMemory(time.Hour)

	go func() {
		time.Sleep(15 * time.Millisecond)
		store.Put("req", true)
	}()

	if !approval.Wait(context.Background(), store, "req", 5*time.Millisecond, time.Second) {
		t.Error("Wait should return true once the decision is stored")
	}
	if _, ok := store.Get("req"); ok {
		t.Error("consumed approval should be removed from the store")
	}
}

func TestWait_TimeoutRejects(t *testing.T) {
	store := approvalstore.NewMemory(time.Hour)

	start := time.Now()
	if approval.Wait(context.Background(), store, "never", 5*time.Millisecond, 30*time.Millisecond) {
		t.Error("Wait should reject on timeout")
	}
	if time.Since(start) > time.Second {
		t.Error("Wait did not respect the timeout")
	}
}

func TestWait_ContextCancelRejects(t *testing.T) {
	store := approvalstore.NewMemory(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if approval.Wait(ctx, store, "req", 5*time.Millisecond, time.Second) {
		t.Error("Wait should reject on context cancellation")
	}
}
