package repositories

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/shared"
)

// SessionStore is a persistent string map. Get returns "" for absent keys.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

var (
	_ SessionStore = (*SQLiteSessionStore)(nil)
	_ SessionStore = (*RedisSessionStore)(nil)
)

// NewSessionStore opens the backend named by cfg.Backend.
//
// The SQLite backend has its migrations applied before it is returned.
func NewSessionStore(ctx context.Context, cfg shared.SessionConfig, logger *log.Logger) (SessionStore, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	switch cfg.Backend {
	case shared.BackendRedis:
		store, err := NewRedisSessionStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Debug("session store ready", "backend", cfg.Backend, "addr", cfg.RedisAddr)
		return store, nil
	case shared.BackendSQLite, "":
		db, err := shared.NewDatabase(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
		}
		shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)

		if err := shared.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
		}
		logger.Debug("session store ready", "backend", shared.BackendSQLite, "path", cfg.Path)
		return NewSQLiteSessionStore(db), nil
	default:
		return nil, fmt.Errorf("%w: unknown session backend %q", shared.ErrInvalidConfig, cfg.Backend)
	}
}
