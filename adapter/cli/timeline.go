package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline [YYYY-MM-DD]",
	Short: "Render the visual day timeline",
	Long: `Timeline asks the backend to render a day-view image and prints its
location. When rendering fails, the plain projected item list for the
day is shown instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized")
		}
		ctx := cmd.Context()

		date := time.Now()
		if len(args) == 1 {
			parsed, err := time.ParseInLocation("2006-01-02", args[0], time.Local)
			if err != nil {
				return fmt.Errorf("invalid date, use YYYY-MM-DD: %w", err)
			}
			date = parsed
		}

		resource, err := app.Store.RenderDayTimeline(ctx, date)
		if err == nil {
			fmt.Printf("timeline for %s: %s\n", resource.Date.Format("2006-01-02"), resource.URL)
			return nil
		}

		// Mandatory fallback: show the plain item list for the day.
		logger.Warn("timeline rendering failed, falling back to item list", "error", err)
		items, ferr := app.Coordinator.Refresh(ctx)
		if ferr != nil {
			return fmt.Errorf("timeline fallback failed: %w", ferr)
		}
		printItems(date.Format("2006-01-02"), items)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}
