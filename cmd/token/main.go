// Command token issues bearer tokens for local use against the API.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"taskboard/internal/auth"
	"taskboard/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token for a user id",
		Long: "Issue an HS256 token carrying the user_id claim. The secret is read\n" +
			"from JWT_SECRET (or .env), the same as the server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			id := uuid.New()
			if userID != "" {
				parsed, err := uuid.Parse(userID)
				if err != nil {
					return fmt.Errorf("invalid user id %q: %w", userID, err)
				}
				id = parsed
			}
			if ttl <= 0 {
				ttl = cfg.JWTExpiry
			}

			token, err := auth.NewIssuer(cfg.JWTSecret, ttl).GenerateToken(id)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "user_id: %s\n", id)
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id to put in the token (random when empty)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_EXPIRY)")
	return cmd
}
