package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/habitline/habitline/server/internal/config"
	"github.com/habitline/habitline/server/internal/store"
	storepg "github.com/habitline/habitline/server/internal/store/postgres"
	storesqlite "github.com/habitline/habitline/server/internal/store/sqlite"
)

// NewStore returns the store.Store selected by cfg.DBDriver.
// Postgres is opened and migrated within the bootstrap timeout; SQLite uses
// cfg.SQLitePath, ":memory:", or the default data directory.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	bootstrapCtx, cancel := context.WithTimeout(ctx, cfg.BootstrapTimeout())
	defer cancel()

	switch cfg.DBDriver {
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("HABIT_SERVER_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		db, err := storepg.Open(bootstrapCtx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := storepg.Migrate(db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Debug().Str("driver", cfg.DBDriver).Msg("store bootstrap completed")
		return storepg.NewWithDB(db), nil

	case "sqlite":
		path := cfg.SQLitePath
		if path == ":memory:" {
			db, err := storesqlite.OpenMemory(bootstrapCtx)
			if err != nil {
				return nil, fmt.Errorf("open sqlite memory: %w", err)
			}
			return storesqlite.NewWithDB(db), nil
		}
		if path == "" {
			p, err := storesqlite.DefaultPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		db, err := storesqlite.Open(bootstrapCtx, path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", path, err)
		}
		log.Debug().Str("driver", cfg.DBDriver).Str("path", path).Msg("store bootstrap completed")
		return storesqlite.NewWithDB(db), nil

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
