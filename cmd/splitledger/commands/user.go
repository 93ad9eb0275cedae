package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/auth"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		password, _ := cmd.Flags().GetString("password")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := auth.NewPasswordAuthenticator(store, 0).Register(context.Background(), email, name, password)
		if err != nil {
			if errors.Is(err, auth.ErrEmailExists) {
				return fmt.Errorf("%s is already registered", email)
			}
			return err
		}

		logger.Info("User created", "user_id", user.ID, "email", user.Email)
		fmt.Fprintln(cmd.OutOrStdout(), user.ID)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered users",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		users, err := store.ListUsers(context.Background())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tNAME")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Email, u.DisplayName)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd, userListCmd)

	userAddCmd.Flags().String("email", "", "email address used to log in")
	userAddCmd.Flags().String("name", "", "display name shown to friends")
	userAddCmd.Flags().String("password", "", "initial password")
	_ = userAddCmd.MarkFlagRequired("email")
	_ = userAddCmd.MarkFlagRequired("name")
	_ = userAddCmd.MarkFlagRequired("password")
}
