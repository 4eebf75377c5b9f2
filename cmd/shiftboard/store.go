package main

import (
	"context"
	"fmt"

	"github.com/K17UN3/shift-manage/internal/core/ports"
	"github.com/K17UN3/shift-manage/internal/infrastructure/config"
	"github.com/K17UN3/shift-manage/internal/infrastructure/db/mongo"
	"github.com/K17UN3/shift-manage/internal/infrastructure/db/postgres"
	"github.com/K17UN3/shift-manage/pkg/logger"
)

// store is the persistence backend selected by STORE_DRIVER.
type store struct {
	Users  ports.UserRepository
	Shifts ports.ShiftRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (s *store) Ping(ctx context.Context) error  { return s.ping(ctx) }
func (s *store) Close(ctx context.Context) error { return s.close(ctx) }

// openStore connects to the configured backend. Postgres schemas are
// migrated to the latest version first.
func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	log := logger.Component("store")

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		if err := postgres.MigrateUp(cfg.Postgres.URL); err != nil {
			return nil, err
		}
		pg, err := postgres.Open(ctx, postgres.Config{URL: cfg.Postgres.URL})
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.StoreDriver).Msg("store connected")
		return &store{Users: pg.Users, Shifts: pg.Shifts, ping: pg.Ping, close: pg.Close}, nil

	case config.DriverMongo:
		m, err := mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.StoreDriver).Str("database", cfg.Mongo.Database).Msg("store connected")
		return &store{Users: m.Users, Shifts: m.Shifts, ping: m.Ping, close: m.Close}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
