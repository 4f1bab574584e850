package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"royalty-backend/internal/config"
	"royalty-backend/pkg/container"
	"royalty-backend/pkg/logger"
)

var (
	cfg *config.Config

	commandTimeout time.Duration

	rootCmd = &cobra.Command{
		Use:           "royaltyctl",
		Short:         "Operator tool for the royalty ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			logger.Init(cfg.App.Environment, cfg.LogLevel)
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().DurationVar(&commandTimeout, "timeout", 30*time.Second, "deadline for database work")

	rootCmd.AddCommand(migrateCmd, tokenCmd, authorCmd, settleCmd, unpaidCmd, exportCmd)
}

// withContainer builds the service graph, runs fn and releases the pool.
func withContainer(fn func(ctx context.Context, c *container.Container) error) error {
	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return fn(ctx, c)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseIDArg(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}
