// Package pgtest connects integration tests to a real PostgreSQL database.
// Tests using it are skipped unless ROYALTY_TEST_DATABASE_URL is set.
package pgtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"royalty-backend/internal/infrastructure/database"
)

const EnvDatabaseURL = "ROYALTY_TEST_DATABASE_URL"

// lockKey is the advisory lock that serializes tests sharing the database
// across test binaries.
const lockKey = 7_260_001

// Pool migrates the test database, empties every table and returns a pool
// that is closed when the test ends. The database is held exclusively for
// the rest of the test.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set", EnvDatabaseURL)
	}

	lockDatabase(t, dsn)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := database.Migrate(ctx, dsn)
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE author_sales, sales, royalty_contracts, books, authors RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}

// lockDatabase takes the session advisory lock on a dedicated connection and
// releases it, by closing the connection, after every other cleanup.
func lockDatabase(t *testing.T, dsn string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(context.Background()) })

	_, err = conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, int64(lockKey))
	require.NoError(t, err)
}
