// Package storage opens the document store selected by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/alem-hub/score-tracker/config"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence/file"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/score-tracker/pkg/circuitbreaker"
	"github.com/alem-hub/score-tracker/pkg/logger"
)

// Open returns the Store for cfg.Storage.Backend.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (persistence.Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Backend(cfg.Storage.Backend))

	switch cfg.Storage.Backend {
	case config.BackendFile, "":
		log.Debug("using file document store", logger.String("dir", cfg.Storage.DataDir))
		return file.NewStore(cfg.Storage.DataDir), nil

	case config.BackendMemory:
		log.Debug("using in-memory document store")
		return memory.NewStore(), nil

	case config.BackendPostgres:
		pgCfg := postgres.DefaultConfig()
		pgCfg.URL = cfg.Database.URL
		pgCfg.MaxConns = int32(cfg.Database.MaxConns)
		pgCfg.ConnectTimeout = cfg.Database.ConnectTimeout
		store, err := postgres.Connect(ctx, pgCfg, log)
		if err != nil {
			return nil, err
		}
		return guard(store, config.BackendPostgres, log), nil

	case config.BackendRedis:
		rCfg := redis.DefaultConfig()
		rCfg.Host = cfg.Redis.Host
		rCfg.Port = cfg.Redis.Port
		rCfg.Password = cfg.Redis.Password
		rCfg.DB = cfg.Redis.DB
		rCfg.KeyPrefix = cfg.Redis.KeyPrefix
		rCfg.DialTimeout = cfg.Redis.DialTimeout
		store, err := redis.Connect(ctx, rCfg, log)
		if err != nil {
			return nil, err
		}
		return guard(store, config.BackendRedis, log), nil

	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Storage.Backend)
	}
}

// guard puts network backends behind a circuit breaker.
func guard(store persistence.Store, name string, log *logger.Logger) persistence.Store {
	return persistence.NewGuardedStore(store, name,
		circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
			log.Warn("storage circuit breaker changed state",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
	)
}

// Documents returns the configured document names.
func Documents(cfg *config.Config) persistence.Documents {
	return persistence.Documents{
		Students: cfg.Storage.StudentsFile,
		Attempts: cfg.Storage.AttemptsFile,
		Auth:     cfg.Storage.AuthFile,
	}
}
