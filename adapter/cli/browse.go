package cli

import (
	"fmt"

	"github.com/felixgeelhaar/daybook/internal/items/domain"
	"github.com/spf13/cobra"
)

var browseTypeFilter string

// browseCommand builds one horizon page. Each page is a fresh Browse
// session; the horizon transition re-triggers the fetch+project cycle.
func browseCommand(use, short string, horizon domain.Horizon) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := GetApp()
			if app == nil {
				return fmt.Errorf("application not initialized")
			}
			ctx := cmd.Context()

			if _, err := app.Controller.ChangeHorizon(horizon); err != nil {
				return err
			}
			if browseTypeFilter != "" {
				t, err := domain.ParseItemType(browseTypeFilter)
				if err != nil {
					return err
				}
				if _, err := app.Controller.SetTypeFilter(t); err != nil {
					return err
				}
			}

			items, err := app.Coordinator.Refresh(ctx)
			if err != nil {
				return fmt.Errorf("failed to load %s view: %w", horizon, err)
			}
			printItems(short, items)
			return nil
		},
	}
}

func init() {
	today := browseCommand("today", "Today", domain.HorizonToday)
	tomorrow := browseCommand("tomorrow", "Tomorrow", domain.HorizonTomorrow)
	upcoming := browseCommand("upcoming", "Upcoming", domain.HorizonUpcoming)
	all := browseCommand("all", "All items", domain.HorizonAll)

	for _, cmd := range []*cobra.Command{today, tomorrow, upcoming, all} {
		cmd.Flags().StringVarP(&browseTypeFilter, "type", "t", "", "filter by type (task, note, reminder)")
		rootCmd.AddCommand(cmd)
	}
}
