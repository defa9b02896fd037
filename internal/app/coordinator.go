package app

import "sync"

// FetchCoordinator enforces at most one in-flight remote refresh per
// label. It is an injected instance owned by the application root, not a
// package-level global, so tests get isolated coordinators.
type FetchCoordinator struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewFetchCoordinator returns an empty coordinator.
func NewFetchCoordinator() *FetchCoordinator {
	return &FetchCoordinator{inflight: make(map[string]struct{})}
}

// TryBegin atomically registers labelID as in-flight. It returns true
// for exactly one concurrent caller per label; everyone else gets false
// until End is called.
func (c *FetchCoordinator) TryBegin(labelID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.inflight[labelID]; ok {
		return false
	}
	c.inflight[labelID] = struct{}{}
	return true
}

// End releases labelID, making future refreshes eligible again. Safe to
// call for a label that is not registered.
func (c *FetchCoordinator) End(labelID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, labelID)
}

// InFlight reports whether a refresh for labelID is currently running.
func (c *FetchCoordinator) InFlight(labelID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[labelID]
	return ok
}
