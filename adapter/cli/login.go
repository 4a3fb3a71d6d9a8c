package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Mark this machine as logged in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Sessions == nil {
			return fmt.Errorf("application not initialized")
		}
		if err := app.Sessions.Save(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("logged in as %s\n", args[0])
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Sessions == nil {
			return fmt.Errorf("application not initialized")
		}
		if err := app.Sessions.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Sessions == nil {
			return fmt.Errorf("application not initialized")
		}
		user, ok, err := app.Sessions.Current(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("not logged in")
			return nil
		}
		fmt.Println(user)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
