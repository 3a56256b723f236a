package main

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		claims jwt.Claims
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token signed with JWT_SECRET_KEY, for development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, expiresAt, err := a.jwtService.GenerateAccessToken(claims, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&claims.UserID, "user", "console", "user_id claim")
	cmd.Flags().StringVar(&claims.Email, "email", "", "email claim")
	cmd.Flags().BoolVar(&claims.IsAdmin, "admin", false, "is_admin claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	return cmd
}
