// Package projection shapes a raw item collection into the ordered,
// filtered list a view displays. Every page goes through the single
// Project entry point instead of re-deriving filter logic per screen.
package projection

import (
	"sort"
	"time"

	"github.com/felixgeelhaar/daybook/internal/items/domain"
)

// Projector computes view projections. It is deterministic for a fixed
// clock and performs no I/O.
type Projector struct {
	now func() time.Time
}

// NewProjector creates a projector using the local wall clock.
func NewProjector() *Projector {
	return &Projector{now: time.Now}
}

// NewProjectorAt creates a projector with a fixed clock.
func NewProjectorAt(now func() time.Time) *Projector {
	return &Projector{now: now}
}

// Project maps (items, view) to the display list.
//
// Filter order: horizon and type first, then the completion filter,
// then ordering. All filtering is stable: relative order of surviving
// items is the input order.
func (p *Projector) Project(items []domain.Item, view domain.ViewDescriptor) ([]domain.Item, error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}

	// Archive: only completed items, every other filter ignored.
	if view.CompletedOnly {
		out := make([]domain.Item, 0, len(items))
		for _, it := range items {
			if it.Completed {
				out = append(out, it)
			}
		}
		return out, nil
	}

	// Search: the input is already ranked by the search collaborator.
	// Only the completion filter applies; the rank order is preserved
	// and never re-sorted by date or title.
	if view.IsSearch() {
		out := make([]domain.Item, 0, len(items))
		for _, it := range items {
			if it.Completed && !view.IncludeCompleted {
				continue
			}
			out = append(out, it)
		}
		return out, nil
	}

	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if !view.Pregrouped && !p.inHorizon(it, view.Horizon) {
			continue
		}
		if view.TypeFilter != "" && it.Type != view.TypeFilter {
			continue
		}
		out = append(out, it)
	}

	// Completion filter runs after horizon/type and before ordering.
	if !view.IncludeCompleted {
		active := out[:0]
		for _, it := range out {
			if !it.Completed {
				active = append(active, it)
			}
		}
		out = out[:len(active)]
	}

	// Ascending by datetime; undated items sort after all dated ones.
	// Stable, so equal datetimes and undated runs keep input order.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Datetime, out[j].Datetime
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	return out, nil
}

// inHorizon computes local-calendar-day membership for an ungrouped
// flat collection. Undated items surface in the today bucket, matching
// how the backend groups them when asked.
func (p *Projector) inHorizon(it domain.Item, h domain.Horizon) bool {
	if h == domain.HorizonAll {
		return true
	}
	now := p.now()
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	dayAfter := today.AddDate(0, 0, 2)

	if !it.Dated() {
		return h == domain.HorizonToday
	}
	ts := it.Datetime.In(now.Location())

	switch h {
	case domain.HorizonToday:
		return !ts.Before(today) && ts.Before(tomorrow)
	case domain.HorizonTomorrow:
		return !ts.Before(tomorrow) && ts.Before(dayAfter)
	case domain.HorizonUpcoming:
		return !ts.Before(dayAfter)
	default:
		return false
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
