package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull external calendar and email into the assistant",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		report, err := app.Coordinator.SyncExternal(cmd.Context())
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		fmt.Printf("synced %d calendar events and %d emails (%d total)\n",
			report.Calendar, report.Email, report.Total())

		printItems("Current view", app.Coordinator.Items())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
