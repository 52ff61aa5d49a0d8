package approvalstore

import "sync"

// Pending tracks approval requests that are waiting on a human decision so
// the UI can discover them by polling. Ids are added by the workflow and
// removed once a decision is posted.
type Pending struct {
	mu  sync.Mutex
	ids []string
}

// NewPending creates an empty registry.
func NewPending() *Pending {
	return &Pending{}
}

// Add registers a waiting approval request.
func (p *Pending) Add(approvalID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, approvalID)
}

// List returns the waiting request ids, oldest first.
func (p *Pending) List() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.ids))
	copy(out, p.ids)
	return out
}

// Remove drops a request once it has been decided.
func (p *Pending) Remove(approvalID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, id := range p.ids {
		if id == approvalID {
			p.ids = append(p.ids[:i], p.ids[i+1:]...)
			return
		}
	}
}
