package docstore

import (
	"errors"
	"fmt"

	"deepedu/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open builds the configured backend, wrapped with metrics and, when
// enabled, a circuit breaker. pool is required for the postgres backend.
func Open(cfg config.StoreConfig, pool *pgxpool.Pool) (Store, error) {
	var base Store
	switch cfg.Type {
	case config.StoreMemory:
		base = NewMemoryStore()
	case config.StorePostgres:
		if pool == nil {
			return nil, errors.New("postgres store requires a database pool")
		}
		base = NewPostgresStore(pool, cfg.Timeout)
	case config.StoreBadger:
		bs, err := OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		base = bs
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}

	var s Store = Instrument(cfg.Type, base)
	if cfg.Breaker.Enabled {
		s = NewBreakerStore(s, BreakerSettings{
			Name:             "docstore-" + cfg.Type,
			MaxRequests:      cfg.Breaker.MaxRequests,
			Interval:         cfg.Breaker.Interval,
			Timeout:          cfg.Breaker.Timeout,
			FailureThreshold: cfg.Breaker.FailureThreshold,
		})
	}
	return s, nil
}
