package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completedCmd = &cobra.Command{
	Use:     "completed",
	Short:   "Completed items",
	Aliases: []string{"archive"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		if _, err := app.Controller.EnterArchive(); err != nil {
			return err
		}
		items, err := app.Coordinator.Refresh(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load completed items: %w", err)
		}
		printItems("Completed", items)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completedCmd)
}
