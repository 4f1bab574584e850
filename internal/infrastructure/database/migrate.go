package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/migrate"
)

const (
	lockAttempts   = 20
	lockRetryDelay = 500 * time.Millisecond
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations holds the embedded SQL migrations. Files are named
// <timestamp>_<name>.tx.up.sql / .tx.down.sql and each runs in its own
// transaction.
var Migrations = migrate.NewMigrations()

func init() {
	files, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	if err := Migrations.Discover(files); err != nil {
		panic(fmt.Sprintf("discover migrations: %v", err))
	}
}

// MigrationStatus lists applied and pending migrations by name.
type MigrationStatus struct {
	Applied []string
	Pending []string
}

// withMigrator opens a short-lived bun handle on dsn, makes sure the
// migration tables exist and runs fn under the migration lock.
func withMigrator(ctx context.Context, dsn string, fn func(m *migrate.Migrator) error) error {
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migration tables: %w", err)
	}
	if err := lockMigrations(ctx, migrator); err != nil {
		return err
	}
	defer func() {
		if err := migrator.Unlock(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to release migration lock")
		}
	}()

	return fn(migrator)
}

// lockMigrations takes the migration lock. bun fails fast when another
// migrator holds it, so retry until the lock frees up or ctx ends.
func lockMigrations(ctx context.Context, m *migrate.Migrator) error {
	var err error
	for attempt := 1; attempt <= lockAttempts; attempt++ {
		if err = m.Lock(ctx); err == nil {
			return nil
		}
		log.Debug().Err(err).Int("attempt", attempt).Msg("Migration lock busy")

		select {
		case <-ctx.Done():
			return fmt.Errorf("acquire migration lock: %w", ctx.Err())
		case <-time.After(lockRetryDelay):
		}
	}
	return fmt.Errorf("acquire migration lock: %w", err)
}

// Migrate applies every pending migration and returns their names.
func Migrate(ctx context.Context, dsn string) ([]string, error) {
	var applied []string
	err := withMigrator(ctx, dsn, func(m *migrate.Migrator) error {
		group, err := m.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		for _, mig := range group.Migrations {
			applied = append(applied, mig.String())
		}
		if !group.IsZero() {
			log.Info().Int64("group", group.ID).Strs("migrations", applied).Msg("Applied migrations")
		}
		return nil
	})
	return applied, err
}

// Rollback reverts the last migration group and returns the names of the
// migrations it rolled back.
func Rollback(ctx context.Context, dsn string) ([]string, error) {
	var reverted []string
	err := withMigrator(ctx, dsn, func(m *migrate.Migrator) error {
		group, err := m.Rollback(ctx)
		if err != nil {
			return fmt.Errorf("rollback: %w", err)
		}
		for _, mig := range group.Migrations {
			reverted = append(reverted, mig.String())
		}
		return nil
	})
	return reverted, err
}

// Status reports which embedded migrations have been applied.
func Status(ctx context.Context, dsn string) (*MigrationStatus, error) {
	status := &MigrationStatus{}
	err := withMigrator(ctx, dsn, func(m *migrate.Migrator) error {
		ms, err := m.MigrationsWithStatus(ctx)
		if err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		for _, mig := range ms {
			if mig.IsApplied() {
				status.Applied = append(status.Applied, mig.String())
			} else {
				status.Pending = append(status.Pending, mig.String())
			}
		}
		return nil
	})
	return status, err
}
