package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/config"
	_ "github.com/mattn/go-sqlite3"
)

// Repository is the SQLite partition store.
type Repository struct {
	db *sql.DB
}

// NewRepository opens the SQLite database at cfg.DBPath.
func NewRepository(cfg *config.Config) (*Repository, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, err
	}
	// A ":memory:" database exists per connection.
	db.SetMaxOpenConns(1)
	return &Repository{db: db}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Get returns the stored document for key.
func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	var data string
	err := r.db.QueryRowContext(ctx, "SELECT data FROM partitions WHERE name = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPartition
	}
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

// Put replaces the document stored under key.
func (r *Repository) Put(ctx context.Context, key string, data []byte) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO partitions (name, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC())
	return err
}

// Delete removes the document stored under key.
func (r *Repository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM partitions WHERE name = ?", key)
	return err
}
