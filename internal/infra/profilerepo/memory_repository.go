package profilerepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/yanqian/natal-chart/internal/domain/profile"
)

// MemoryRepository keeps profiles in process memory for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]profile.Profile
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: make(map[uuid.UUID]profile.Profile)}
}

// Create stores the profile.
func (r *MemoryRepository) Create(_ context.Context, p profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.profiles[p.ID]; exists {
		return fmt.Errorf("profile %s already exists", p.ID)
	}
	r.profiles[p.ID] = p
	return nil
}

// Get returns a profile by id.
func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (profile.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	return p, ok, nil
}

// ListByOwner returns the owner's profiles, oldest first.
func (r *MemoryRepository) ListByOwner(_ context.Context, owner string) ([]profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]profile.Profile, 0)
	for _, p := range r.profiles {
		if p.Owner == owner {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a profile and reports whether it existed.
func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		return false, nil
	}
	delete(r.profiles, id)
	return true, nil
}

var _ profile.Repository = (*MemoryRepository)(nil)
