// Package infrastructure composes the backend package into the domain.Store
// the application layer depends on, picking a concrete implementation from
// configuration the way the teacher's infrastructure.DatabaseProvider chose
// a GORM dialector from conf.
package infrastructure

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/akeemphilbert/goro/internal/conf"
	"github.com/akeemphilbert/goro/internal/ldp/domain"
	"github.com/akeemphilbert/goro/internal/ldp/infrastructure/backend"
)

// NewStore builds the domain.Store named by cfg.Backend.Type, initializes it
// (AutoMigrate for the GORM store, a no-op for the memory store) and
// returns it ready for use.
func NewStore(cfg *conf.LDP, logger log.Logger) (domain.Store, error) {
	helper := log.NewHelper(logger)
	backendCfg := cfg.Backend
	if backendCfg == nil || backendCfg.Type == "" || backendCfg.Type == "memory" {
		helper.Log(log.LevelInfo, "msg", "using in-memory backend")
		store := backend.NewMemoryStore()
		if err := store.Init(context.Background()); err != nil {
			return nil, err
		}
		return store, nil
	}

	if backendCfg.Type != "gorm" {
		return nil, fmt.Errorf("unknown backend type %q", backendCfg.Type)
	}

	db, err := openGormDB(backendCfg)
	if err != nil {
		return nil, fmt.Errorf("opening gorm backend: %w", err)
	}
	helper.Log(log.LevelInfo, "msg", "using gorm backend", "driver", backendCfg.Driver)
	store := backend.NewGormStore(db)
	if err := store.Init(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func openGormDB(cfg *conf.Backend) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	case "", "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "goro.db"
		}
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unknown gorm driver %q", cfg.Driver)
	}
}
