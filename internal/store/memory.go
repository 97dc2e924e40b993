package store

import (
	"context"
	"sync"

	"github.com/anyulbade/marketplace-pricer/internal/model"
)

// MemoryStore implements ProductStore with an in-process map.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]model.Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]model.Product),
	}
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, p model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = append(s.sessions[sessionID], p)
	return nil
}

func (s *MemoryStore) List(_ context.Context, sessionID string) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Copy so callers never alias the stored slice.
	products := make([]model.Product, len(s.sessions[sessionID]))
	copy(products, s.sessions[sessionID])
	return products, nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
