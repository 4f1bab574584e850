package main

import (
	"context"

	"github.com/spf13/cobra"

	"royalty-backend/internal/domains/author/model"
	"royalty-backend/pkg/container"
)

var (
	authorBio      string
	authorIfAbsent bool

	authorCmd = &cobra.Command{
		Use:   "author",
		Short: "Manage authors",
	}

	authorCreateCmd = &cobra.Command{
		Use:   "create <name>",
		Short: "Create an author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.CreateAuthorRequest{Name: args[0]}
			if authorBio != "" {
				req.Bio = &authorBio
			}

			return withContainer(func(ctx context.Context, c *container.Container) error {
				if authorIfAbsent {
					a, created, err := c.AuthorService.GetOrCreate(ctx, req)
					if err != nil {
						return err
					}
					return printJSON(map[string]any{"author": a.ToResponse(), "created": created})
				}

				a, err := c.AuthorService.Create(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(a.ToResponse())
			})
		},
	}
)

func init() {
	authorCreateCmd.Flags().StringVar(&authorBio, "bio", "", "author biography")
	authorCreateCmd.Flags().BoolVar(&authorIfAbsent, "if-absent", false, "return the existing author with the same name instead of failing")

	authorCmd.AddCommand(authorCreateCmd)
}
