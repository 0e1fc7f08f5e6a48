package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/travel-deals/backend/migrations"
	"github.com/travel-deals/backend/testutil"
)

// TestMain applies all pending migrations to the test database once before
// any test in the repo_test package runs, so individual tests never need to
// think about schema state.
func TestMain(m *testing.M) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		// No test DB configured; every test skips itself via testutil.
		os.Exit(m.Run())
	}

	db := testutil.MustOpenSQLDB(os.Getenv("TEST_DATABASE_URL"))

	if _, err := migrations.Up(context.Background(), db); err != nil {
		db.Close()
		log.Fatalf("TestMain: run migrations: %v", err)
	}
	db.Close()

	os.Exit(m.Run())
}
