package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *bun.DB, name string) bool {
	t.Helper()

	var count int
	err := db.NewRaw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).
		Scan(context.Background(), &count)
	require.NoError(t, err)
	return count > 0
}

func TestMigrations(t *testing.T) {
	t.Parallel()

	db := newDB(t)
	ctx := context.Background()

	group, err := BringUpToDate(ctx, db)
	require.NoError(t, err)
	assert.NotZero(t, group.ID)
	for _, table := range []string{"authors", "genres", "books", "book_genres", "book_instances", "users", "sessions", "audit_logs"} {
		assert.True(t, tableExists(t, db, table), table)
	}

	group, err = BringUpToDate(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, group.ID)

	ms, err := Status(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, ms.Unapplied())

	group, err = Rollback(ctx, db)
	require.NoError(t, err)
	assert.NotZero(t, group.ID)
	assert.False(t, tableExists(t, db, "authors"))

	ms, err = Status(ctx, db)
	require.NoError(t, err)
	assert.Len(t, ms.Unapplied(), len(ms))
}
