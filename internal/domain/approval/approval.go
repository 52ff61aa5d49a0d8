// Package approval models human-in-the-loop approval decisions used to gate
// workflow continuation.
package approval

import (
	"context"
	"time"
)

// Store keeps approval decisions keyed by an opaque approval id. Entries are
// independent, so implementations only need coarse-grained safety for
// concurrent access.
type Store interface {
	Put(approvalID string, approved bool)
	// Get returns the stored decision; ok is false when no decision has been
	// recorded yet (or it expired).
	Get(approvalID string) (approved bool, ok bool)
	Remove(approvalID string)
}

// Wait polls the store until a decision arrives for approvalID or timeout
// elapses. A timeout or context cancellation counts as an explicit rejection,
// not an error. The consumed entry is removed from the store.
func Wait(ctx context.Context, store Store, approvalID string, interval, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if approved, ok := store.Get(approvalID); ok {
			store.Remove(approvalID)
			return approved
		}
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return false
		case <-ticker.C:
		}
	}
}
