package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_SQLiteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	n, err := Migrate(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), n)

	n, err = Migrate(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for _, table := range []string{"books", "students", "borrow_records"} {
		var count int
		err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+table)
		require.NoError(t, err, table)
		assert.Zero(t, count)
	}
}

func TestMigrate_AvailabilityCheckConstraint(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = Migrate(ctx, db)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO books (id, title, author, category, quantity, available, created_at)
		VALUES ('b1', 't', 'a', 'etc', 2, 3, CURRENT_TIMESTAMP)`)
	assert.Error(t, err, "available above quantity must be rejected")

	_, err = db.ExecContext(ctx, `INSERT INTO books (id, title, author, category, quantity, available, created_at)
		VALUES ('b2', 't', 'a', 'etc', 2, -1, CURRENT_TIMESTAMP)`)
	assert.Error(t, err, "negative available must be rejected")
}

func TestHelpers_StatsAndClose(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)

	require.NoError(t, db.Ping(ctx))

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConns, 0)

	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	_, err = db.Stats()
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestBuildConnectionString(t *testing.T) {
	dsn := buildConnectionString(&DBConfig{
		Host: "db", Port: 5432, Username: "lib", Password: "p@ss", DBName: "school", SSLMode: "disable",
	})
	assert.Equal(t, "postgresql://lib:p%40ss@db:5432/school?sslmode=disable", dsn)
}
