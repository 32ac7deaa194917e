package persistence

import (
	"context"
	"errors"

	"github.com/alem-hub/score-tracker/pkg/circuitbreaker"
)

// GuardedStore routes every call through a circuit breaker, so a dead
// backend costs one timeout per run of failures instead of one per document.
// A missing document is an answer and never trips the breaker.
type GuardedStore struct {
	store   Store
	breaker *circuitbreaker.Breaker
}

// NewGuardedStore wraps store. The breaker is built from opts with a failure
// filter that ignores ErrDocumentNotFound.
func NewGuardedStore(store Store, name string, opts ...circuitbreaker.Option) *GuardedStore {
	opts = append(opts, circuitbreaker.WithIsFailure(func(err error) bool {
		return !errors.Is(err, ErrDocumentNotFound)
	}))
	return &GuardedStore{store: store, breaker: circuitbreaker.New(name, opts...)}
}

// Read implements Store.
func (g *GuardedStore) Read(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		data, err = g.store.Read(ctx, name)
		return err
	})
	return data, err
}

// Write implements Store.
func (g *GuardedStore) Write(ctx context.Context, name string, data []byte) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.store.Write(ctx, name, data)
	})
}

// Close implements Store. It is never short-circuited.
func (g *GuardedStore) Close() error {
	return g.store.Close()
}

// State reports the breaker state.
func (g *GuardedStore) State() circuitbreaker.State {
	return g.breaker.State()
}
