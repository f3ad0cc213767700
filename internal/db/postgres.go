package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresStore keeps partitions in a JSONB column.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects to dsn and creates the partitions table.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	conn, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("PostgresStore.Connect: %w", err)
	}
	store := NewPostgresStoreFromDB(conn)
	if err := store.Migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStoreFromDB wraps an existing connection pool.
func NewPostgresStoreFromDB(conn *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: conn}
}

// Migrate creates the partitions table.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	const createQuery = `
		CREATE TABLE IF NOT EXISTS partitions (
			name       TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := s.db.ExecContext(ctx, createQuery); err != nil {
		return fmt.Errorf("PostgresStore.Migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	const selectQuery = `SELECT data FROM partitions WHERE name = $1`
	var data []byte
	err := s.db.GetContext(ctx, &data, selectQuery, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPartition
	}
	if err != nil {
		return nil, fmt.Errorf("PostgresStore.Get: %w", err)
	}
	return data, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, data []byte) error {
	const upsertQuery = `
		INSERT INTO partitions (name, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	if _, err := s.db.ExecContext(ctx, upsertQuery, key, data); err != nil {
		return fmt.Errorf("PostgresStore.Put: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM partitions WHERE name = $1`, key); err != nil {
		return fmt.Errorf("PostgresStore.Delete: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
