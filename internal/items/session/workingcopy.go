package session

import "github.com/felixgeelhaar/daybook/internal/items/domain"

// WorkingCopy is the page-session-local snapshot of fetched items. It
// is rebuilt on every authoritative fetch and optimistically mutated in
// place between fetches. It is never shared across page sessions.
type WorkingCopy struct {
	items []domain.Item
	valid bool
}

// NewWorkingCopy returns an empty, invalid copy; the first fetch
// populates it.
func NewWorkingCopy() *WorkingCopy {
	return &WorkingCopy{}
}

// Replace installs a freshly projected item list.
func (w *WorkingCopy) Replace(items []domain.Item) {
	w.items = items
	w.valid = true
}

// Items returns the current snapshot.
func (w *WorkingCopy) Items() []domain.Item {
	return w.items
}

// Valid reports whether the copy reflects an authoritative fetch that
// has not been invalidated by a mode transition.
func (w *WorkingCopy) Valid() bool { return w.valid }

// Invalidate discards the snapshot. Called on every mode transition so
// a stale copy is never reused across modes.
func (w *WorkingCopy) Invalidate() {
	w.items = nil
	w.valid = false
}

// Remove drops the item with the given id, if present. Removing an
// absent id is a no-op, which makes repeated optimistic removals
// idempotent.
func (w *WorkingCopy) Remove(id string) bool {
	for i, it := range w.items {
		if it.ID == id {
			w.items = append(w.items[:i], w.items[i+1:]...)
			return true
		}
	}
	return false
}

// Append adds freshly created items to the end of the snapshot.
func (w *WorkingCopy) Append(items ...domain.Item) {
	w.items = append(w.items, items...)
}

// Len returns the number of items in the snapshot.
func (w *WorkingCopy) Len() int { return len(w.items) }
