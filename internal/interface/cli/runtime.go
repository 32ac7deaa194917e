// Package cli is the command-line front end of the tracker. Every invocation
// opens a session, runs one command against it and closes the store.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alem-hub/score-tracker/config"
	"github.com/alem-hub/score-tracker/internal/application"
	"github.com/alem-hub/score-tracker/internal/application/auth"
	"github.com/alem-hub/score-tracker/internal/infrastructure/metrics"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence"
	"github.com/alem-hub/score-tracker/internal/infrastructure/storage"
	"github.com/alem-hub/score-tracker/pkg/logger"
	"github.com/alem-hub/score-tracker/pkg/timeutil"
)

// Options controls how the app is built. Zero values pick production
// defaults.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer

	// Config replaces config.Load.
	Config *config.Config

	// Store replaces the configured backend.
	Store persistence.Store

	Clock timeutil.Clock

	// BcryptCost overrides the gate hashing cost.
	BcryptCost int
}

// Runtime holds everything one command needs.
type Runtime struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	Store   persistence.Store
	Session *application.Session
	Gate    *auth.Gate

	ctx    context.Context
	cancel context.CancelFunc
}

// Overrides are the global flags applied on top of the configuration.
type Overrides struct {
	DataDir  string
	Backend  string
	LogLevel string
}

func newRuntime(ctx context.Context, opts Options, ov Overrides) (*Runtime, error) {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if ov.DataDir != "" {
		cfg.Storage.DataDir = ov.DataDir
	}
	if ov.Backend != "" {
		cfg.Storage.Backend = ov.Backend
	}
	if ov.LogLevel != "" {
		cfg.Observability.LogLevel = ov.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// The command deadline covers connecting and loading as well.
	cancel := context.CancelFunc(func() {})
	if timeout := cfg.App.CommandTimeout; timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	log := logger.New(logger.Options{
		Output: opts.Stderr,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	}).With(logger.String("app", cfg.App.Name))

	store := opts.Store
	if store == nil {
		opened, err := storage.Open(ctx, cfg, log)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
		}
		store = opened
	}

	clock := opts.Clock
	if clock == nil {
		clock = timeutil.System
	}

	m := metrics.New(cfg.App.Name)
	adapter := persistence.NewAdapter(store,
		persistence.WithDocuments(storage.Documents(cfg)),
		persistence.WithClock(clock),
		persistence.WithLogCapacity(cfg.Activity.Capacity),
		persistence.WithLogger(log),
		persistence.WithRecorder(m),
	)

	gate, err := auth.NewGate(auth.Config{
		Password:     cfg.Auth.Password,
		RecoveryWord: cfg.Auth.RecoveryWord,
		Cost:         opts.BcryptCost,
	}, adapter, log)
	if err != nil {
		cancel()
		_ = store.Close()
		return nil, err
	}

	// Load failures are logged and counted by the adapter.
	session, _ := application.Open(ctx, adapter,
		application.WithClock(clock),
		application.WithLogger(log),
		application.WithRecorder(m),
	)

	return &Runtime{
		Config:  cfg,
		Logger:  session.Logger(),
		Metrics: m,
		Store:   store,
		Session: session,
		Gate:    gate,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Context carries the command deadline, if one is configured.
func (r *Runtime) Context() context.Context {
	return r.ctx
}

// Close ends the command deadline and releases the store.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	if r.cancel != nil {
		r.cancel()
	}
	if r.Store == nil {
		return nil
	}
	return r.Store.Close()
}

var errNoRuntime = errors.New("cli: runtime not initialised")
