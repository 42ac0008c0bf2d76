// Package dbtest opens a migrated throwaway SQLite database for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"school-library-backend/internal/infrastructure/database"

	"github.com/stretchr/testify/require"
)

// New returns a fresh database file under t.TempDir(), closed on cleanup
func New(t testing.TB) *database.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.Migrate(ctx, db)
	require.NoError(t, err)
	return db
}
