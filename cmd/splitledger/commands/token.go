package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/auth"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token <email>",
	Short: "Issue a bearer token for an existing user",
	Long: `Issue a JWT for the user with the given email, signed with JWT_SECRET.
Useful for calling the API from scripts without going through Login.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := store.GetUserByEmail(context.Background(), strings.ToLower(strings.TrimSpace(args[0])))
		if err != nil {
			return fmt.Errorf("failed to look up %s: %w", args[0], err)
		}

		token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).Generate(user)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
