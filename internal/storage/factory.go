// internal/storage/factory.go
package storage

import (
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"

	"github.com/serenity-bot/serenity/internal/config"
	"github.com/serenity-bot/serenity/internal/database"
	"github.com/serenity-bot/serenity/internal/storage/gormstore"
	"github.com/serenity-bot/serenity/internal/storage/memory"
)

// Compile-time interface checks
var (
	_ Backend    = (*memory.Backend)(nil)
	_ Exportable = (*memory.Backend)(nil)
	_ Backend    = (*gormstore.Backend)(nil)
	_ Backend    = Discard{}
)

// Dependencies holds what the database-backed storage types need.
type Dependencies struct {
	DB       config.DBConfig
	DBLogger zerolog.Logger
	Logger   *slog.Logger
}

// NewBackend creates a storage backend based on configuration. For the sqlite
// and postgres types the returned manager owns the connection and must be
// closed after the backend; it is nil for the other types.
func NewBackend(cfg config.StorageConfig, deps Dependencies) (Backend, *database.Manager, error) {
	switch cfg.Type {
	case "postgres", "sqlite":
		mgr := database.NewManager(deps.DBLogger, deps.DB)
		if err := mgr.Connect(cfg.Type, cfg.SQLite.Path); err != nil {
			return nil, nil, fmt.Errorf("failed to connect %s storage: %w", cfg.Type, err)
		}
		return gormstore.New(gormstore.Dependencies{
			DB:            mgr.DB,
			Logger:        deps.Logger,
			FlushInterval: cfg.SQLite.FlushInterval,
		}), mgr, nil
	case "memory":
		return memory.New(cfg.Memory), nil, nil
	case "none", "":
		return Discard{}, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
