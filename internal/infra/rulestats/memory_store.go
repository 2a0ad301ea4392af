package rulestats

import (
	"context"
	"maps"
	"sync"

	"github.com/yanqian/natal-chart/internal/domain/chart"
)

// MemoryStore counts rule hits in process memory for tests/dev.
type MemoryStore struct {
	mu   sync.RWMutex
	hits map[string]int64
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hits: make(map[string]int64)}
}

// RecordHits implements chart.StatsStore.
func (s *MemoryStore) RecordHits(_ context.Context, codes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, code := range codes {
		if code == "" {
			continue
		}
		s.hits[code]++
	}
	return nil
}

// Counts returns a snapshot of the counters.
func (s *MemoryStore) Counts(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.hits), nil
}

var _ chart.StatsStore = (*MemoryStore)(nil)
