// Package memory implements an in-process document store. It backs tests and
// dry-run sessions where nothing should reach disk.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence"
)

// ErrStoreClosed is returned after Close.
var ErrStoreClosed = errors.New("memory: store is closed")

// Store keeps documents in a map.
type Store struct {
	mu     sync.RWMutex
	docs   map[string][]byte
	closed bool

	// FailWrites makes every Write fail; used to exercise best-effort saves.
	FailWrites error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{docs: make(map[string][]byte)}
}

// Seed stores a document directly, bypassing FailWrites.
func (s *Store) Seed(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = append([]byte(nil), data...)
}

// Read implements persistence.Store.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	data, ok := s.docs[name]
	if !ok {
		return nil, persistence.ErrDocumentNotFound
	}
	return append([]byte(nil), data...), nil
}

// Write implements persistence.Store.
func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.docs[name] = append([]byte(nil), data...)
	return nil
}

// Close implements persistence.Store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
