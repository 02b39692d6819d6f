// Package storage opens the record store selected by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/csg33k/leadform/internal/adapters/firebase"
	"github.com/csg33k/leadform/internal/adapters/postgres"
	"github.com/csg33k/leadform/internal/adapters/redisstore"
	"github.com/csg33k/leadform/internal/adapters/sqlite"
	"github.com/csg33k/leadform/internal/config"
	"github.com/csg33k/leadform/internal/errs"
	"github.com/csg33k/leadform/internal/ports"
)

// Handle is an open store. Close releases its connections.
type Handle struct {
	Store ports.RecordStore
	close func() error
}

func (h *Handle) Close() error {
	if h.close == nil {
		return nil
	}
	return h.close()
}

// Lister returns the store as a ports.RecordLister, or errs.ErrNotListable.
func (h *Handle) Lister() (ports.RecordLister, error) {
	l, ok := h.Store.(ports.RecordLister)
	if !ok {
		return nil, errs.ErrNotListable
	}
	return l, nil
}

// Open connects to the store named by cfg.Driver. The hosted store is
// connected lazily on the first write, so an unconfigured one still opens
// and then fails each write.
func Open(ctx context.Context, cfg config.Config, logger ports.Logger) (*Handle, error) {
	switch cfg.Driver {
	case config.DriverFirebase:
		return &Handle{Store: firebase.NewLazy(cfg.FirebaseConfig())}, nil

	case config.DriverSQLite:
		repo, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.DBPath, err)
		}
		return &Handle{Store: repo, close: repo.Close}, nil

	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is empty: %w", errs.ErrStoreUnconfigured)
		}
		repo, err := postgres.Open(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return &Handle{Store: repo, close: repo.Close}, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		return &Handle{Store: redisstore.NewRecordRepository(client, logger), close: client.Close}, nil
	}
	return nil, fmt.Errorf("%q: %w", cfg.Driver, errs.ErrUnknownDriver)
}
