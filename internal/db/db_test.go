package db

import (
	"context"
	"testing"

	"github.com/MOULOUNDOU/Senchambre/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) *Repository {
	repo, err := NewRepository(&config.Config{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	if err := repo.RunMigrations(); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

// exerciseBackend checks the Backend contract shared by every store.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Get(ctx, "senchambres_test")
	assert.ErrorIs(t, err, ErrNoPartition)

	require.NoError(t, b.Put(ctx, "senchambres_test", []byte(`[{"id":"1"}]`)))
	got, err := b.Get(ctx, "senchambres_test")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, b.Put(ctx, "senchambres_test", []byte(`[]`)))
	got, err = b.Get(ctx, "senchambres_test")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(got))

	require.NoError(t, b.Delete(ctx, "senchambres_test"))
	_, err = b.Get(ctx, "senchambres_test")
	assert.ErrorIs(t, err, ErrNoPartition)
}

func TestSQLiteBackend(t *testing.T) {
	exerciseBackend(t, setupTestRepo(t))
}

func TestMigrationsAreIdempotent(t *testing.T) {
	repo := setupTestRepo(t)
	if err := repo.RunMigrations(); err != nil {
		t.Errorf("second migration run: %v", err)
	}
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryStore())
}

func TestMemoryBackendCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	data := []byte(`[1]`)
	require.NoError(t, m.Put(ctx, "k", data))
	data[1] = '2'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := &config.Config{Backend: "cassandra"}
	_, err := Open(context.Background(), cfg, cfg.NewLogger())
	assert.Error(t, err)
}

func TestOpenMemoryBackend(t *testing.T) {
	cfg := &config.Config{Backend: "memory", LogLevel: "error"}
	b, err := Open(context.Background(), cfg, cfg.NewLogger())
	require.NoError(t, err)
	defer b.Close()
	exerciseBackend(t, b)
}
