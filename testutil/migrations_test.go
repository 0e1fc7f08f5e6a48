package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travel-deals/backend/migrations"
	"github.com/travel-deals/backend/testutil"
)

// TestMigrations verifies the full migration round-trip against a real
// Postgres database: reset, apply, check the deals table and its slug index,
// roll back, check everything is gone, and finally re-apply so other
// packages sharing the database find the schema in place.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)
	ctx := context.Background()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err, "create goose provider")

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	n, err := migrations.Up(ctx, db)
	require.NoError(t, err, "migrations up")
	assert.Positive(t, n, "expected at least one migration to be applied")

	assertRelationPresence(t, db, "deals", true)
	assertRelationPresence(t, db, "deals_slug_key", true)

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	assertRelationPresence(t, db, "deals", false)
	assertRelationPresence(t, db, "deals_slug_key", false)

	_, err = migrations.Up(ctx, db)
	require.NoError(t, err, "re-apply migrations")
}

// assertRelationPresence checks pg_class for a table or index in the public
// schema.
func assertRelationPresence(t *testing.T, db *sql.DB, name string, shouldExist bool) {
	t.Helper()

	const q = `
		SELECT EXISTS (
			SELECT 1 FROM pg_class c
			JOIN pg_namespace n ON n.oid = c.relnamespace
			WHERE n.nspname = 'public'
			AND   c.relname = $1
		)`
	var exists bool
	err := db.QueryRowContext(context.Background(), q, name).Scan(&exists)
	require.NoError(t, err, "check relation existence for %q", name)

	if shouldExist {
		assert.True(t, exists, "expected %q to exist", name)
	} else {
		assert.False(t, exists, "expected %q to not exist", name)
	}
}
