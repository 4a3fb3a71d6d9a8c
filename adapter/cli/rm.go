package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rmYes bool

var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Short:   "Delete an item",
	Aliases: []string{"delete"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		// The coordinator never prompts; the confirmation signal comes
		// from here.
		confirmed := rmYes
		if !confirmed {
			fmt.Printf("Delete item #%s? [y/N]: ", args[0])
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			confirmed = strings.EqualFold(strings.TrimSpace(answer), "y")
		}
		if !confirmed {
			fmt.Println("aborted")
			return nil
		}

		if err := app.Coordinator.DeleteItem(cmd.Context(), args[0], true); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}
		fmt.Printf("deleted #%s\n", args[0])
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(rmCmd)
}
