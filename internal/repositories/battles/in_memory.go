package battles

import (
	"context"
	"sort"
	"sync"

	apperr "github.com/KirkDiggler/battle-engine/internal/errors"
)

// InMemoryRepository stores snapshots in a map. Used when Redis is not configured.
type InMemoryRepository struct {
	mu           sync.RWMutex
	snapshots    map[string]*Snapshot
	timeProvider TimeProvider
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		snapshots:    make(map[string]*Snapshot),
		timeProvider: SystemTimeProvider(),
	}
}

// Save stores a copy of snap
func (r *InMemoryRepository) Save(_ context.Context, snap *Snapshot) error {
	if snap == nil {
		return apperr.InvalidArgument("snapshot cannot be nil")
	}
	if snap.ID == "" {
		return apperr.InvalidArgument("snapshot ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap.UpdatedAt = r.timeProvider.Now()
	r.snapshots[snap.ID] = clone(snap)
	return nil
}

// Get returns a copy of the snapshot with id
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.snapshots[id]
	if !ok {
		return nil, apperr.NotFoundf("battle %s not found", id)
	}
	return clone(snap), nil
}

// Delete removes the snapshot with id
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.snapshots[id]; !ok {
		return apperr.NotFoundf("battle %s not found", id)
	}
	delete(r.snapshots, id)
	return nil
}

// List returns every snapshot ordered by ID
func (r *InMemoryRepository) List(_ context.Context) ([]*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Snapshot, 0, len(r.snapshots))
	for _, snap := range r.snapshots {
		out = append(out, clone(snap))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
