// Package memory provides an in-process CircuitStore for development
// and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/application/ports"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/aggregates"
	pkgerrors "github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/errors"
)

// CircuitStore keeps circuit documents in a map guarded by a RWMutex.
// Documents are deep-copied on the way in and out so callers can never
// alias stored state.
type CircuitStore struct {
	mu    sync.RWMutex
	items map[string]aggregates.CircuitDocument
}

// NewCircuitStore creates an empty in-memory store
func NewCircuitStore() *CircuitStore {
	return &CircuitStore{
		items: make(map[string]aggregates.CircuitDocument),
	}
}

// Save upserts a document
func (s *CircuitStore) Save(ctx context.Context, doc aggregates.CircuitDocument) error {
	if doc.ID == "" {
		return pkgerrors.NewValidationError("circuit id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[doc.ID] = doc.Clone()
	return nil
}

// GetByID retrieves a document; NotFound when absent
func (s *CircuitStore) GetByID(ctx context.Context, id string) (aggregates.CircuitDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.items[id]
	if !exists {
		return aggregates.CircuitDocument{}, pkgerrors.NewNotFoundError("circuit " + id)
	}
	return doc.Clone(), nil
}

// List returns documents matching the filter, newest first
func (s *CircuitStore) List(ctx context.Context, filter ports.ListFilter) ([]aggregates.CircuitDocument, error) {
	s.mu.RLock()
	docs := make([]aggregates.CircuitDocument, 0, len(s.items))
	for _, doc := range s.items {
		if filter.PublicOnly && !doc.IsPublic {
			continue
		}
		docs = append(docs, doc.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	if filter.Skip > 0 {
		if filter.Skip >= len(docs) {
			return []aggregates.CircuitDocument{}, nil
		}
		docs = docs[filter.Skip:]
	}
	if filter.Limit > 0 && filter.Limit < len(docs) {
		docs = docs[:filter.Limit]
	}
	return docs, nil
}

// Delete removes a document; NotFound when absent
func (s *CircuitStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return pkgerrors.NewNotFoundError("circuit " + id)
	}
	delete(s.items, id)
	return nil
}
