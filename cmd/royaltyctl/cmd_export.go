package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"royalty-backend/pkg/container"
)

var (
	exportOut string

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export reports as spreadsheets",
	}

	exportPaymentsCmd = &cobra.Command{
		Use:   "payments",
		Short: "Write every author's ledger rows and unpaid balance to an .xlsx file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := exportOut
			if path == "" {
				path = fmt.Sprintf("author-payments-%s.xlsx", time.Now().Format("2006-01-02"))
			}

			return withContainer(func(ctx context.Context, c *container.Container) error {
				f, err := c.ReportService.ExportAuthorPayments(ctx)
				if err != nil {
					return err
				}
				defer f.Close()

				if err := f.SaveAs(path); err != nil {
					return fmt.Errorf("save %s: %w", path, err)
				}
				log.Info().Str("path", path).Msg("Author payments exported")
				return nil
			})
		},
	}
)

func init() {
	exportPaymentsCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default author-payments-<date>.xlsx)")
	exportCmd.AddCommand(exportPaymentsCmd)
}
