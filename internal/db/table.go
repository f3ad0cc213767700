package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Table is a typed view over one partition. Every write replaces the whole
// partition; Update holds the table lock from load to flush.
type Table[T any] struct {
	mu      sync.Mutex
	backend Backend
	key     string
	log     *logrus.Logger
}

func NewTable[T any](backend Backend, key string, log *logrus.Logger) *Table[T] {
	return &Table[T]{backend: backend, key: key, log: log}
}

// Key returns the partition key.
func (t *Table[T]) Key() string { return t.key }

// Load returns every record in the partition. A missing partition is empty;
// a malformed one is logged and read as empty.
func (t *Table[T]) Load(ctx context.Context) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx)
}

func (t *Table[T]) load(ctx context.Context) ([]T, error) {
	raw, err := t.backend.Get(ctx, t.key)
	if errors.Is(err, ErrNoPartition) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", t.key, err)
	}
	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		t.log.WithField("partition", t.key).WithError(err).Warn("discarding unreadable partition")
		return nil, nil
	}
	return rows, nil
}

// Flush replaces the partition with rows.
func (t *Table[T]) Flush(ctx context.Context, rows []T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flush(ctx, rows)
}

func (t *Table[T]) flush(ctx context.Context, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", t.key, err)
	}
	if err := t.backend.Put(ctx, t.key, raw); err != nil {
		return fmt.Errorf("flush %s: %w", t.key, err)
	}
	return nil
}

// Update loads the partition, applies fn and flushes the result. Nothing is
// written when fn returns an error.
func (t *Table[T]) Update(ctx context.Context, fn func(rows []T) ([]T, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.load(ctx)
	if err != nil {
		return err
	}
	rows, err = fn(rows)
	if err != nil {
		return err
	}
	return t.flush(ctx, rows)
}

// Exists reports whether the partition has ever been written.
func (t *Table[T]) Exists(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.backend.Get(ctx, t.key)
	if errors.Is(err, ErrNoPartition) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s: %w", t.key, err)
	}
	return true, nil
}

// Drop removes the partition from the backend.
func (t *Table[T]) Drop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.backend.Delete(ctx, t.key)
}
