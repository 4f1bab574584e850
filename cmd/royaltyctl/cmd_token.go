package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"royalty-backend/pkg/jwt"
)

var (
	tokenScope  string
	tokenExpiry time.Duration

	tokenCmd = &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint an API access token",
		Example: `  royaltyctl token accounting --scope "write settle"
  royaltyctl token reporting --expiry 24h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expiry := tokenExpiry
			if expiry <= 0 {
				expiry = time.Duration(cfg.JWT.AccessTokenExpiry) * time.Minute
			}

			token, err := jwt.NewManager(cfg.JWT.Secret, expiry).GenerateAccessToken(args[0], tokenScope)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Println(token)
			return nil
		},
	}
)

func init() {
	tokenCmd.Flags().StringVar(&tokenScope, "scope", "", `space separated scopes: "write", "settle", "admin"`)
	tokenCmd.Flags().DurationVar(&tokenExpiry, "expiry", 0, "token lifetime (default JWT_ACCESS_EXPIRY)")
}
