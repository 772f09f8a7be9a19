package memory

import (
	"context"
	"sync"
)

// Store is an in-memory state store. It backs tests and has no durability.
type Store struct {
	mu      sync.RWMutex
	entries map[string]string
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		entries: make(map[string]string),
	}
}

func (s *Store) GetLastSeen(ctx context.Context, repo string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[repo], nil
}

func (s *Store) PutLastSeen(ctx context.Context, repo, publishedAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[repo] = publishedAt
	return nil
}

func (s *Store) Close() error {
	return nil
}

// Len returns the number of recorded repositories
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
