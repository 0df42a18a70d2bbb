package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/food_delivery/pkg/config"
	"github.com/Skotchmaster/food_delivery/pkg/tokens"
)

func makeTokenCommand(root *rootOptions) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for the admin routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.RequireNonEmptyBytes(root.cfg.JWTAccessSecret, "JWT_SECRET"); err != nil {
				return err
			}
			tok, err := tokens.NewAccessToken(root.cfg.JWTAccessSecret, subject, role, time.Now().Add(ttl))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject, usually the operator id")
	cmd.Flags().StringVar(&role, "role", tokens.RoleAdmin, "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
