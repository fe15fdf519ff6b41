// Package memstore is an in-memory implementation of store.Store for
// tests and short-lived runs.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
	"github.com/cognicore/semblance/pkg/semblance/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu          sync.RWMutex
	factors     map[string]store.Factor
	factorOrder []string
	comparisons map[string]store.Comparison
	compOrder   []string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		factors:     make(map[string]store.Factor),
		comparisons: make(map[string]store.Comparison),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// PutFactor inserts or replaces a factor record.
func (s *Store) PutFactor(ctx context.Context, rec store.Factor) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: factor record without an id", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.factors[rec.ID]; !ok {
		s.factorOrder = append(s.factorOrder, rec.ID)
	}
	s.factors[rec.ID] = rec
	return nil
}

// GetFactor returns a factor by ID.
func (s *Store) GetFactor(ctx context.Context, id string) (store.Factor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.factors[id]
	if !ok {
		return store.Factor{}, fmt.Errorf("%w: factor %q", internalerr.ErrNotFound, id)
	}
	return rec, nil
}

// ListFactors returns all stored factors in insertion order.
func (s *Store) ListFactors(ctx context.Context) ([]store.Factor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Factor, 0, len(s.factorOrder))
	for _, id := range s.factorOrder {
		out = append(out, s.factors[id])
	}
	return out, nil
}

// PutComparison inserts or replaces a comparison record.
func (s *Store) PutComparison(ctx context.Context, rec store.Comparison) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: comparison record without an id", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comparisons[rec.ID]; !ok {
		s.compOrder = append(s.compOrder, rec.ID)
	}
	s.comparisons[rec.ID] = rec
	return nil
}

// ListComparisons returns comparisons involving the given factor on
// either side, in insertion order.
func (s *Store) ListComparisons(ctx context.Context, factorID string) ([]store.Comparison, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Comparison
	for _, id := range s.compOrder {
		rec := s.comparisons[id]
		if rec.LeftID == factorID || rec.RightID == factorID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
