package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <free text>",
	Short: "Add items from natural language",
	Long: `Add sends free text to the assistant, which classifies it into one
or more tasks, notes, or reminders.

Examples:
  daybook add "remind me to call the dentist tomorrow at 9"
  daybook add "note: the wifi password is hunter2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized")
		}
		text := strings.Join(args, " ")

		created, err := app.Coordinator.SubmitNaturalLanguageInput(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("failed to add: %w", err)
		}
		for _, it := range created {
			fmt.Printf("created %s %s #%s: %s\n", string(it.Type), priorityBadge(it.Priority), it.ID, it.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
