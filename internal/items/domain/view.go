package domain

import (
	"fmt"
	"strings"
)

// Horizon is the time-bucket selector for browsing.
type Horizon string

const (
	HorizonToday    Horizon = "today"
	HorizonTomorrow Horizon = "tomorrow"
	HorizonUpcoming Horizon = "upcoming"
	HorizonAll      Horizon = "all"
)

// ParseHorizon validates a horizon token. An unrecognized token is a
// validation failure, never silently defaulted to a bucket.
func ParseHorizon(s string) (Horizon, error) {
	switch h := Horizon(strings.ToLower(strings.TrimSpace(s))); h {
	case HorizonToday, HorizonTomorrow, HorizonUpcoming, HorizonAll:
		return h, nil
	default:
		return "", fmt.Errorf("%w: unknown horizon %q", ErrInvalidView, s)
	}
}

// ViewDescriptor is the immutable request handed to the projector.
//
// Horizon-based browsing and SearchQuery are mutually exclusive modes;
// when SearchQuery is set, Horizon and TypeFilter are ignored entirely.
type ViewDescriptor struct {
	Horizon Horizon

	// TypeFilter restricts the view to one item type. Empty passes all.
	TypeFilter ItemType

	// IncludeCompleted keeps completed items in the view. Off for all
	// non-archive views.
	IncludeCompleted bool

	// CompletedOnly selects the archive view: only completed items are
	// retained and Horizon/TypeFilter are ignored.
	CompletedOnly bool

	// SearchQuery, when non-empty, marks the input as a rank-ordered
	// search result whose order must be preserved.
	SearchQuery string

	// Pregrouped marks the input collection as already bucketed for
	// Horizon by the backend. The projector trusts that membership and
	// skips its own calendar-day arithmetic.
	Pregrouped bool
}

// IsSearch reports whether the descriptor is in search mode.
func (v ViewDescriptor) IsSearch() bool { return v.SearchQuery != "" }

// Validate rejects descriptors the projector must not guess about.
func (v ViewDescriptor) Validate() error {
	if v.CompletedOnly || v.IsSearch() {
		return nil
	}
	if _, err := ParseHorizon(string(v.Horizon)); err != nil {
		return err
	}
	if v.TypeFilter != "" {
		if _, err := ParseItemType(string(v.TypeFilter)); err != nil {
			return err
		}
	}
	return nil
}
