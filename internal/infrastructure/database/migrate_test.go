package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_DiscoversEmbeddedFiles(t *testing.T) {
	t.Parallel()

	sorted := Migrations.Sorted()
	require.Len(t, sorted, 1)

	m := sorted[0]
	assert.Equal(t, "20250101000000", m.Name)
	assert.Equal(t, "create_royalty_schema", m.Comment)
	assert.NotNil(t, m.Up)
	assert.NotNil(t, m.Down)
}

func TestMigrate_Postgres(t *testing.T) {
	dsn := os.Getenv("ROYALTY_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ROYALTY_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := Migrate(ctx, dsn)
	require.NoError(t, err)

	again, err := Migrate(ctx, dsn)
	require.NoError(t, err)
	assert.Empty(t, again)

	status, err := Status(ctx, dsn)
	require.NoError(t, err)
	assert.Empty(t, status.Pending)
	assert.Contains(t, status.Applied, "20250101000000_create_royalty_schema")
}
