package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agenda-app/server/internal/auth"
)

var (
	tokenUserID int64
	tokenExpiry time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a user id",
	Long: `Mint an HS256 bearer token signed with JWT_SECRET.

Tokens are normally issued by the identity provider; this command exists
for local development and smoke tests.

Example:
  server token --user 42 --expiry 2h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUserID <= 0 {
			return fmt.Errorf("--user must be a positive user id")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		expiry := cfg.Auth.JWTExpiry
		if tokenExpiry > 0 {
			expiry = tokenExpiry
		}
		token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, expiry, cfg.Auth.JWTIssuer).Generate(tokenUserID)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user", 0, "user id to embed as the token subject")
	tokenCmd.Flags().DurationVar(&tokenExpiry, "expiry", 0, "token lifetime (default: JWT_EXPIRY_HOURS)")
}
