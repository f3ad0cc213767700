package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/MOULOUNDOU/Senchambre/internal/config"
	"github.com/sirupsen/logrus"
)

// ErrNoPartition is returned by Backend.Get for a key that was never written.
var ErrNoPartition = errors.New("partition not found")

// Backend is a key-value store holding one JSON document per partition key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open connects the backend selected by cfg.Backend and prepares its schema.
func Open(ctx context.Context, cfg *config.Config, log *logrus.Logger) (Backend, error) {
	switch cfg.Backend {
	case "sqlite", "":
		repo, err := NewRepository(cfg)
		if err != nil {
			return nil, err
		}
		if err := repo.RunMigrations(); err != nil {
			repo.Close()
			return nil, fmt.Errorf("sqlite migrations: %w", err)
		}
		log.WithField("path", cfg.DBPath).Info("using sqlite partition store")
		return repo, nil
	case "postgres":
		store, err := NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		log.Info("using postgres partition store")
		return store, nil
	case "mongo":
		store, err := NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		log.WithField("database", cfg.MongoDB).Info("using mongo partition store")
		return store, nil
	case "redis":
		store, err := NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		log.WithField("addr", cfg.RedisAddr).Info("using redis partition store")
		return store, nil
	case "memory":
		log.Warn("using in-memory partition store, data is lost on exit")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
