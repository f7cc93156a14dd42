package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *DB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteBackend_ReadInsert(t *testing.T) {
	db := openSQLite(t)
	assert.Equal(t, SQLite, db.Dialect)
	assert.True(t, db.Healthy(context.Background()))

	b := db.Backend()
	ctx := context.Background()
	require.NoError(t, b.Insert(ctx, "attendance", Row{"id": "a1", "user_id": "u1", "subject": "Maths", "date": "2026-01-02", "status": "present"}))
	require.NoError(t, b.Insert(ctx, "attendance", Row{"id": "a2", "user_id": "u1", "subject": "Physics", "date": "2026-01-05", "status": "late"}))
	require.NoError(t, b.Insert(ctx, "attendance", Row{"id": "a3", "user_id": "u2", "subject": "Maths", "date": "2026-01-03", "status": "absent"}))

	rows, err := b.Read(ctx, Query{Table: "attendance", Filters: []Filter{Eq("user_id", "u1")}, Order: []Order{Desc("date")}})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a2", rows[0].String("id"))
	assert.Equal(t, "late", rows[0].String("status"))
	assert.Equal(t, "a1", rows[1].String("id"))
}

func TestSQLiteBackend_Errors(t *testing.T) {
	b := openSQLite(t).Backend()
	ctx := context.Background()

	_, err := b.Read(ctx, Query{Table: "nope"})
	assert.Error(t, err)

	err = b.Insert(ctx, "attendance", Row{"id": "a1"})
	assert.Error(t, err, "NOT NULL columns are enforced")

	_, err = b.Read(ctx, Query{Table: "attendance; DROP TABLE users"})
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestNewSQLiteDB_BadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := NewSQLiteDB(filepath.Join(blocker, "portal.db"))
	assert.Error(t, err)
}
