// Package domain defines the item model shared by the projection,
// session, and mutation layers, plus the contract of the backend store.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// ItemType categorizes what kind of entry the assistant created.
type ItemType string

const (
	ItemTypeTask     ItemType = "task"
	ItemTypeNote     ItemType = "note"
	ItemTypeReminder ItemType = "reminder"
)

// ParseItemType validates a type token received from flags or the wire.
func ParseItemType(s string) (ItemType, error) {
	switch t := ItemType(strings.ToLower(strings.TrimSpace(s))); t {
	case ItemTypeTask, ItemTypeNote, ItemTypeReminder:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown item type %q", ErrInvalidView, s)
	}
}

// Priority is the urgency assigned by the classifier.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// NormalizePriority maps an absent or unknown priority to the default.
func NormalizePriority(p Priority) Priority {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p
	default:
		return PriorityMedium
	}
}

// Item is the central entity. The backend owns the collection; the client
// holds a per-page-session working copy of it.
type Item struct {
	// ID is an opaque identifier assigned by the backend, immutable
	// after creation.
	ID string

	Type        ItemType
	Title       string
	Description string

	// Datetime is nil for undated notes and tasks.
	Datetime *time.Time

	Priority Priority
	Tags     []string

	// Completed is the sole authority for whether the item appears in
	// active views.
	Completed bool

	// RelevanceScore is set only on items returned by semantic search.
	// It is an ephemeral annotation of a query result, never persisted,
	// and must not be read on items from any other source.
	RelevanceScore *float64
}

// Dated reports whether the item carries a schedule timestamp.
func (i Item) Dated() bool { return i.Datetime != nil }

// Patch holds partial field changes for an update request. Nil fields
// are left untouched by the backend.
type Patch struct {
	Title       *string
	Description *string
	Datetime    *time.Time
	Priority    *Priority
	Completed   *bool
}

// CompletionPatch builds a patch that only flips the completed flag.
func CompletionPatch(completed bool) Patch {
	return Patch{Completed: &completed}
}
