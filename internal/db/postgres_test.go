package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewPostgresStoreFromDB(sqlx.NewDb(conn, "postgres")), mock
}

func TestPostgresMigrate(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS partitions`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT data FROM partitions WHERE name = \$1`).
		WithArgs("senchambres_listings").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`[{"id":"1"}]`)))

	got, err := store.Get(context.Background(), "senchambres_listings")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetMissing(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT data FROM partitions`).
		WithArgs("senchambres_likes").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	_, err := store.Get(context.Background(), "senchambres_likes")
	assert.ErrorIs(t, err, ErrNoPartition)
}

func TestPostgresPut(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO partitions`).
		WithArgs("senchambres_views", []byte(`[]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Put(context.Background(), "senchambres_views", []byte(`[]`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPutWrapsErrors(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("connection reset")
	mock.ExpectExec(`INSERT INTO partitions`).WillReturnError(boom)

	err := store.Put(context.Background(), "k", []byte(`[]`))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "PostgresStore.Put")
}

func TestPostgresDelete(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`DELETE FROM partitions WHERE name = \$1`).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Delete(context.Background(), "k"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
