package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark an item as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized")
		}
		if err := app.Coordinator.ToggleCompletion(cmd.Context(), args[0], true); err != nil {
			return fmt.Errorf("failed to complete item: %w", err)
		}
		fmt.Printf("completed #%s\n", args[0])
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore a completed item to active",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized")
		}
		if err := app.Coordinator.ToggleCompletion(cmd.Context(), args[0], false); err != nil {
			return fmt.Errorf("failed to restore item: %w", err)
		}
		fmt.Printf("restored #%s\n", args[0])
		return nil
	},
	Args: cobra.ExactArgs(1),
}

func init() {
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(restoreCmd)
}
