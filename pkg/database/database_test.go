package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("in memory defaults", func(t *testing.T) {
		db, err := New(ctx)
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, 25, db.Stats().MaxOpenConnections)
	})

	t.Run("pool sizing", func(t *testing.T) {
		db, err := New(ctx, WithMaxOpenConns(1), WithMaxIdleConns(1))
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, 1, db.Stats().MaxOpenConnections)
		assert.Equal(t, 1, db.Stats().Idle)
	})

	t.Run("creates parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model", "history.db")

		db, err := New(ctx, WithDataSource(path), WithCreateParentDir())
		require.NoError(t, err)
		defer db.Close()

		_, err = db.ExecContext(ctx, "CREATE TABLE t (id INTEGER)")
		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("empty driver", func(t *testing.T) {
		_, err := New(ctx, WithDriver(""))
		assert.ErrorContains(t, err, "driver cannot be empty")
	})

	t.Run("empty data source", func(t *testing.T) {
		_, err := New(ctx, WithDataSource(""))
		assert.ErrorContains(t, err, "data source cannot be empty")
	})

	t.Run("unknown driver exhausts retries", func(t *testing.T) {
		_, err := New(ctx, WithDriver("nope"), WithRetry(2, time.Millisecond))
		assert.ErrorContains(t, err, "after 2 attempts")
	})
}

func TestFileDir(t *testing.T) {
	testCases := []struct {
		dsn      string
		expected string
	}{
		{":memory:", ""},
		{"history.db", ""},
		{"model/training_history.db", "model"},
		{"file:data/runs.db?cache=shared", "data"},
		{"file::memory:?cache=shared", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.dsn, func(t *testing.T) {
			assert.Equal(t, tc.expected, fileDir(tc.dsn))
		})
	}
}
