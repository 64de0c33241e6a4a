package cmd

import (
	"errors"
	"fmt"
	"strings"

	"dbconsole/database"
	"dbconsole/logger"

	"github.com/spf13/cobra"
)

var loginToken string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the backend session token",
	Long:  `Stores the token sent as the Authorization header on every backend request. It is cleared automatically when the backend answers 401/403.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := strings.TrimSpace(loginToken)
		if token == "" {
			return errors.New("--token must not be empty")
		}
		if err := database.SetAuthToken(token); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}
		logger.Info("Session token stored.")
		fmt.Fprintln(cmd.OutOrStdout(), "Token stored.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the backend session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.ClearAuthToken(); err != nil {
			return fmt.Errorf("failed to clear token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var instanceClear bool

var instanceCmd = &cobra.Command{
	Use:   "instance [name]",
	Short: "Show or select the database instance",
	Long:  `Without arguments prints the selected instance. With a name selects it; every grid request then carries it as the 'instance' filter.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if instanceClear {
			if err := database.SetSelectedInstance(""); err != nil {
				return fmt.Errorf("failed to clear instance: %w", err)
			}
			fmt.Fprintln(out, "Instance selection cleared.")
			return nil
		}
		if len(args) == 1 {
			name := strings.TrimSpace(args[0])
			if err := database.SetSelectedInstance(name); err != nil {
				return fmt.Errorf("failed to select instance: %w", err)
			}
			fmt.Fprintf(out, "Selected instance: %s\n", name)
			return nil
		}

		session, err := database.GetSessionSettings()
		if err != nil {
			return err
		}
		instance := session.Instance
		if instance == "" {
			instance = "(none)"
		}
		fmt.Fprintf(out, "Instance: %s\nLogged in: %t\n", instance, session.HasToken)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "session token (required)")
	loginCmd.MarkFlagRequired("token")
	instanceCmd.Flags().BoolVar(&instanceClear, "clear", false, "clear the selected instance")
	rootCmd.AddCommand(loginCmd, logoutCmd, instanceCmd)
}
