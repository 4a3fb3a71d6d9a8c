package domain

import (
	"context"
	"time"
)

// GroupedItems is the composite grouped-fetch shape: bucket token to
// pre-bucketed items, in backend-assigned order.
type GroupedItems map[Horizon][]Item

// SyncReport counts newly merged items per external source.
type SyncReport struct {
	Calendar int
	Email    int
}

// Total returns the number of items merged across all sources.
func (r SyncReport) Total() int { return r.Calendar + r.Email }

// TimelineResource locates a rendered day-timeline image.
type TimelineResource struct {
	Date time.Time
	URL  string
}

// Store is the contract against the external item service. It shapes
// requests and responses only; bucketing, ranking, and classification
// all happen on the backend.
type Store interface {
	// Classify turns free text into structured items. A classification
	// failure returns ErrClassificationFailed and no partial items.
	Classify(ctx context.Context, text string) ([]Item, error)

	// FetchItems returns the unordered flat collection, optionally
	// restricted by type. No bucketing is performed.
	FetchItems(ctx context.Context, typeFilter ItemType) ([]Item, error)

	// FetchGrouped returns items pre-bucketed for a single horizon.
	FetchGrouped(ctx context.Context, horizon Horizon) ([]Item, error)

	// FetchGroupedAll returns the composite bucket map.
	FetchGroupedAll(ctx context.Context) (GroupedItems, error)

	// Search returns a rank-ordered result set, each item annotated
	// with a relevance score. Order must be preserved downstream.
	Search(ctx context.Context, query string) ([]Item, error)

	// UpdateItem applies partial field changes and returns the updated
	// item, or ErrNotFound.
	UpdateItem(ctx context.Context, id string, patch Patch) (Item, error)

	// DeleteItem removes an item. Deleting an absent id reports
	// ErrNotFound, which delete callers treat as already resolved.
	DeleteItem(ctx context.Context, id string) error

	// SyncExternal pulls calendar and email sources into the store and
	// reports merge counts. Merged items are never described to the
	// client for local application.
	SyncExternal(ctx context.Context) (SyncReport, error)

	// RenderDayTimeline asks for the day-view image. On failure the
	// caller must fall back to a plain item list.
	RenderDayTimeline(ctx context.Context, date time.Time) (TimelineResource, error)

	// Health reports backend reachability.
	Health(ctx context.Context) (string, error)
}
