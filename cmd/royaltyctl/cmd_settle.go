package main

import (
	"context"

	"github.com/spf13/cobra"

	"royalty-backend/internal/domains/settlement/model"
	"royalty-backend/pkg/container"
)

var (
	settleCmd = &cobra.Command{
		Use:   "settle",
		Short: "Mark unpaid royalties paid",
	}

	settleAuthorCmd = &cobra.Command{
		Use:   "author <author-id>",
		Short: "Pay every unpaid royalty of an author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "author")
			if err != nil {
				return err
			}
			return withContainer(func(ctx context.Context, c *container.Container) error {
				result, err := c.SettlementService.PayAuthorUnpaid(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(result.ToResponse())
			})
		},
	}

	settleSaleCmd = &cobra.Command{
		Use:   "sale <sale-id>",
		Short: "Pay every unpaid royalty of a sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "sale")
			if err != nil {
				return err
			}
			return withContainer(func(ctx context.Context, c *container.Container) error {
				result, err := c.SettlementService.PayAuthorsForSale(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(result.ToResponse())
			})
		},
	}

	unpaidCmd = &cobra.Command{
		Use:   "unpaid <author-id>",
		Short: "Show an author's unpaid royalty subtotal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "author")
			if err != nil {
				return err
			}
			return withContainer(func(ctx context.Context, c *container.Container) error {
				total, err := c.SettlementService.UnpaidSubtotal(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(model.UnpaidSubtotalResponse{AuthorID: id, UnpaidSubtotal: total.StringFixed(2)})
			})
		},
	}
)

func init() {
	settleCmd.AddCommand(settleAuthorCmd, settleSaleCmd)
}
