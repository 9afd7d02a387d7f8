package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newTestSQLiteKV(db *sql.DB) *sqliteKeyValueStore {
	kv := NewSQLiteKeyValueStore(&DB{DB: db, logger: logger.Nop()}, logger.Nop()).(*sqliteKeyValueStore)
	kv.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return kv
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

func TestSQLiteKV_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newTestDB(t)
		kv := newTestSQLiteKV(db)

		mock.ExpectQuery(`SELECT value FROM kv_entries WHERE name = \?`).
			WithArgs(KeyToken).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte("jwt")))

		got, err := kv.Get(testContext(), KeyToken)
		require.NoError(t, err)
		assert.Equal(t, []byte("jwt"), got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows maps to ErrKeyNotFound", func(t *testing.T) {
		db, mock := newTestDB(t)
		kv := newTestSQLiteKV(db)

		mock.ExpectQuery(`SELECT value FROM kv_entries`).
			WithArgs(KeyToken).
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		_, err := kv.Get(testContext(), KeyToken)
		require.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("driver error wraps ErrExecutingQuery", func(t *testing.T) {
		db, mock := newTestDB(t)
		kv := newTestSQLiteKV(db)

		mock.ExpectQuery(`SELECT value FROM kv_entries`).
			WithArgs(KeyToken).
			WillReturnError(errors.New("disk I/O error"))

		_, err := kv.Get(testContext(), KeyToken)
		require.ErrorIs(t, err, ErrExecutingQuery)
		assert.NotErrorIs(t, err, ErrKeyNotFound)
	})
}

func TestSQLiteKV_Set(t *testing.T) {
	t.Run("upserts value", func(t *testing.T) {
		db, mock := newTestDB(t)
		kv := newTestSQLiteKV(db)

		mock.ExpectExec(`INSERT INTO kv_entries \(name,value,updated_at\) VALUES \(\?,\?,\?\) ON CONFLICT`).
			WithArgs(KeyAPIURL, []byte("https://vault.example.com/api"), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, kv.Set(testContext(), KeyAPIURL, []byte("https://vault.example.com/api")))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error wraps ErrExecutingStatement", func(t *testing.T) {
		db, mock := newTestDB(t)
		kv := newTestSQLiteKV(db)

		mock.ExpectExec(`INSERT INTO kv_entries`).WillReturnError(errors.New("database is locked"))

		err := kv.Set(testContext(), KeyAPIURL, []byte("x"))
		require.ErrorIs(t, err, ErrExecutingStatement)
	})
}

func TestSQLiteKV_Remove(t *testing.T) {
	t.Run("deletes all keys in one statement", func(t *testing.T) {
		db, mock := newTestDB(t)
		kv := newTestSQLiteKV(db)

		mock.ExpectExec(`DELETE FROM kv_entries WHERE name IN \(\?,\?\)`).
			WithArgs(KeyToken, KeyEncryptedVault).
			WillReturnResult(sqlmock.NewResult(0, 2))

		require.NoError(t, kv.Remove(testContext(), KeyToken, KeyEncryptedVault))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no keys is a no-op", func(t *testing.T) {
		db, mock := newTestDB(t)
		kv := newTestSQLiteKV(db)

		require.NoError(t, kv.Remove(testContext()))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error wraps ErrExecutingStatement", func(t *testing.T) {
		db, mock := newTestDB(t)
		kv := newTestSQLiteKV(db)

		mock.ExpectExec(`DELETE FROM kv_entries`).WillReturnError(errors.New("boom"))

		require.ErrorIs(t, kv.Remove(testContext(), KeyToken), ErrExecutingStatement)
	})
}
