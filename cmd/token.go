package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/yakoovad/golf-fundraiser/internal/auth"
	"github.com/yakoovad/golf-fundraiser/internal/config"
)

// tokenCmd mints a bearer token for the authenticated endpoints.
func tokenCmd(configPath *string) *cobra.Command {
	var (
		subject   string
		tokenType string
		ttl       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := auth.ParseTokenType(tokenType)
			if err != nil {
				return err
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			token, err := auth.NewTokenManager(cfg.AuthTokenSecret).GenerateToken(typ, subject, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	cmd.Flags().StringVar(&tokenType, "type", string(auth.TokenTypeAdmin), "token type: user or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
