package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence"
)

// Querier is the subset of *pgxpool.Pool the store needs.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store keeps documents in the tracker_documents table.
type Store struct {
	db      Querier
	release func()
	closed  bool
	mu      sync.RWMutex
}

var _ persistence.Store = (*Store)(nil)

// NewStore wraps an existing pool or transaction. Close does not release db.
func NewStore(db Querier) *Store {
	return newStore(db, nil)
}

func newStore(db Querier, release func()) *Store {
	return &Store{db: db, release: release}
}

// Migrate creates the documents table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrConnectionClosed
	}
	if _, err := s.db.Exec(ctx, createDocumentsTable); err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}
	return nil
}

// Read returns the body of the named document.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrConnectionClosed
	}

	var body string
	err := s.db.QueryRow(ctx, selectDocument, name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, persistence.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: read %s: %w", name, err)
	}
	return []byte(body), nil
}

// Write upserts the named document.
func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrConnectionClosed
	}
	if _, err := s.db.Exec(ctx, upsertDocument, name, string(data)); err != nil {
		return fmt.Errorf("postgres: write %s: %w", name, err)
	}
	return nil
}

// Close releases the pool opened by Connect.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.release != nil {
		s.release()
	}
	return nil
}
