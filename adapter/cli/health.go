package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend reachability",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized")
		}
		status, err := app.Store.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("backend unhealthy: %w", err)
		}
		fmt.Println(status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
