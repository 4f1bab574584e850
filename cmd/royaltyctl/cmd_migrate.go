package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"royalty-backend/internal/infrastructure/database"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			applied, err := database.Migrate(ctx, cfg.Database.DSN())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Println("There are no new migrations to run")
				return nil
			}
			for _, name := range applied {
				fmt.Println("applied", name)
			}
			return nil
		},
	}

	migrateRollbackCmd = &cobra.Command{
		Use:   "rollback",
		Short: "Roll back the last migration group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			reverted, err := database.Rollback(ctx, cfg.Database.DSN())
			if err != nil {
				return err
			}
			if len(reverted) == 0 {
				fmt.Println("There are no groups to roll back")
				return nil
			}
			for _, name := range reverted {
				fmt.Println("rolled back", name)
			}
			return nil
		},
	}

	migrateStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Print applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			status, err := database.Status(ctx, cfg.Database.DSN())
			if err != nil {
				return err
			}
			for _, name := range status.Applied {
				fmt.Println("applied ", name)
			}
			for _, name := range status.Pending {
				fmt.Println("pending ", name)
			}
			return nil
		},
	}
)

func init() {
	migrateCmd.AddCommand(migrateRollbackCmd, migrateStatusCmd)
}
