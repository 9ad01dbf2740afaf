package store

import (
	"context"
	"sync"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
)

// MemoryStore keeps matches in memory behind an RWMutex. Values are cloned on
// the way in and out so callers never share cricket or set sub-state.
type MemoryStore struct {
	mu      sync.RWMutex
	matches map[string]matches.Match
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		matches: make(map[string]matches.Match),
	}
}

// Create inserts a new match at version 1.
func (s *MemoryStore) Create(ctx context.Context, m matches.Match) (matches.Match, error) {
	if err := ctx.Err(); err != nil {
		return matches.Match{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.matches[m.ID]; exists {
		return matches.Match{}, matches.Errorf(matches.KindConflict, "match %s already exists", m.ID)
	}
	m.Version = 1
	s.matches[m.ID] = m.Clone()
	return m, nil
}

// Load retrieves a match by id.
func (s *MemoryStore) Load(ctx context.Context, id string) (matches.Match, error) {
	if err := ctx.Err(); err != nil {
		return matches.Match{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[id]
	if !ok {
		return matches.Match{}, matches.NotFound(id)
	}
	return m.Clone(), nil
}

// Save replaces a match when its version still matches the stored one and
// returns the saved value with the version bumped.
func (s *MemoryStore) Save(ctx context.Context, m matches.Match) (matches.Match, error) {
	if err := ctx.Err(); err != nil {
		return matches.Match{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.matches[m.ID]
	if !ok {
		return matches.Match{}, matches.NotFound(m.ID)
	}
	if current.Version != m.Version {
		return matches.Match{}, conflict(m.ID, m.Version, current.Version)
	}
	m.Version++
	s.matches[m.ID] = m.Clone()
	return m, nil
}

// List returns matches passing the filter, newest first.
func (s *MemoryStore) List(ctx context.Context, f ListFilter) ([]matches.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	result := make([]matches.Match, 0, len(s.matches))
	for _, m := range s.matches {
		if f.Matches(m) {
			result = append(result, m.Clone())
		}
	}
	s.mu.RUnlock()

	SortNewestFirst(result)
	if f.Limit > 0 && len(result) > f.Limit {
		result = result[:f.Limit]
	}
	return result, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
