package duckdb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_BootsSchema(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "duckdb-test-*")
	require.NoError(t, err)

	defer func() {
		err := os.RemoveAll(tmpDir)
		if err != nil {
			t.Errorf("failed to cleanup test directory: %v", err)
		}
	}()

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := NewDB(Settings{
		DbPath: dbPath,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO report_drafts (id, name, payload) VALUES (?, ?, ?)`,
		"draft-001", "Monthly sales", `{"name":"Monthly sales"}`,
	)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM report_drafts WHERE id = ?", "draft-001").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = db.QueryRow("SELECT COUNT(*) FROM execution_history").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestInTransaction(t *testing.T) {
	db, err := NewDB(Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	insert := func(ctx context.Context, id string) error {
		_, err := Conn(ctx, db).ExecContext(ctx, `INSERT INTO report_drafts (id, name) VALUES (?, ?)`, id, id)
		return err
	}

	t.Run("commit", func(t *testing.T) {
		err := InTransaction(ctx, db, func(ctx context.Context) error {
			assert.NotNil(t, GetTransaction(ctx))
			return insert(ctx, "committed")
		})
		require.NoError(t, err)
	})

	t.Run("rollback", func(t *testing.T) {
		boom := errors.New("boom")
		err := InTransaction(ctx, db, func(ctx context.Context) error {
			require.NoError(t, insert(ctx, "rolled-back"))
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM report_drafts").Scan(&count))
	assert.Equal(t, 1, count)
}
