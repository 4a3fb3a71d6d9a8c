package cli

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/daybook/internal/items/domain"
)

func typeIcon(t domain.ItemType) string {
	switch t {
	case domain.ItemTypeTask:
		return "[T]"
	case domain.ItemTypeNote:
		return "[N]"
	case domain.ItemTypeReminder:
		return "[R]"
	default:
		return "[?]"
	}
}

func priorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return "!!"
	case domain.PriorityLow:
		return "  "
	default:
		return "! "
	}
}

// printItems renders a projected list the way every page displays it.
func printItems(title string, items []domain.Item) {
	noun := "items"
	if len(items) == 1 {
		noun = "item"
	}
	fmt.Printf("%s (%d %s)\n", title, len(items), noun)
	fmt.Println(strings.Repeat("-", 60))

	if len(items) == 0 {
		fmt.Println("Nothing here.")
		return
	}

	for _, it := range items {
		when := "unscheduled"
		if it.Dated() {
			when = it.Datetime.Format("Mon 02 Jan 15:04")
		}
		done := " "
		if it.Completed {
			done = "x"
		}
		line := fmt.Sprintf("[%s] %s %s %-18s #%s  %s",
			done, typeIcon(it.Type), priorityBadge(it.Priority), when, it.ID, it.Title)
		if it.RelevanceScore != nil {
			line += fmt.Sprintf("  (%.0f%% match)", *it.RelevanceScore*100)
		}
		fmt.Println(line)
		if len(it.Tags) > 0 {
			fmt.Printf("      tags: %s\n", strings.Join(it.Tags, ", "))
		}
	}
}
