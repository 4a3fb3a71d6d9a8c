// Package session governs the interaction mode of a page session: which
// of browse, search, or archive is active, which transitions are legal,
// and which in-flight response is still allowed to touch the working
// copy.
package session

import (
	"fmt"

	"github.com/felixgeelhaar/daybook/internal/items/domain"
)

// Mode identifies the active interaction mode.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeSearch
	ModeArchive
)

func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "browse"
	case ModeSearch:
		return "search"
	case ModeArchive:
		return "archive"
	default:
		return "unknown"
	}
}

// InvalidTransitionError reports a mode transition the state machine
// forbids.
type InvalidTransitionError struct {
	From  Mode
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s not allowed from %s mode", e.Event, e.From)
}

// Controller is the interaction mode state machine for one page
// session. It owns the working copy and the per-mode request sequence
// counters used for last-write-wins supersession.
//
// A single logical thread of control drives it; completions are
// interleaved, never parallel, so no locking is needed.
type Controller struct {
	mode    Mode
	horizon domain.Horizon
	query   string

	// horizon last active before a search began, restored on clear.
	browseHorizon domain.Horizon

	// whether the active search response has been applied; an
	// unresolved search may be superseded by a newer query.
	searchResolved bool

	typeFilter domain.ItemType

	issued map[Mode]uint64

	working *WorkingCopy
}

// NewController creates a session in Browse(today).
func NewController() *Controller {
	return &Controller{
		mode:          ModeBrowse,
		horizon:       domain.HorizonToday,
		browseHorizon: domain.HorizonToday,
		issued:        make(map[Mode]uint64),
		working:       NewWorkingCopy(),
	}
}

// Mode returns the active interaction mode.
func (c *Controller) Mode() Mode { return c.mode }

// Horizon returns the active browse horizon.
func (c *Controller) Horizon() domain.Horizon { return c.horizon }

// Query returns the active search query, if any.
func (c *Controller) Query() string { return c.query }

// TypeFilter returns the active browse type filter.
func (c *Controller) TypeFilter() domain.ItemType { return c.typeFilter }

// WorkingCopy returns the session's item snapshot.
func (c *Controller) WorkingCopy() *WorkingCopy { return c.working }

// View builds the descriptor for the current state.
func (c *Controller) View() domain.ViewDescriptor {
	switch c.mode {
	case ModeSearch:
		return domain.ViewDescriptor{SearchQuery: c.query}
	case ModeArchive:
		return domain.ViewDescriptor{CompletedOnly: true}
	default:
		return domain.ViewDescriptor{Horizon: c.horizon, TypeFilter: c.typeFilter}
	}
}

// issue assigns the next sequence number for a mode. Numbers are
// monotonically increasing per mode and assigned at submission time.
func (c *Controller) issue(m Mode) uint64 {
	c.issued[m]++
	return c.issued[m]
}

// Accept reports whether a response with the given sequence number is
// the latest issued for its mode. A superseded response is discarded,
// never rendered; the transport request itself is not aborted.
func (c *Controller) Accept(m Mode, seq uint64) bool {
	return seq == c.issued[m]
}

// SubmitSearch transitions Browse -> Search, or supersedes the current
// search while its response is still outstanding. A search that has
// already resolved must be cleared before a new one is submitted.
// Returns the sequence number assigned to the query's request.
func (c *Controller) SubmitSearch(query string) (uint64, error) {
	switch c.mode {
	case ModeBrowse:
		c.browseHorizon = c.horizon
	case ModeSearch:
		if c.searchResolved {
			return 0, &InvalidTransitionError{From: c.mode, Event: "submitSearch"}
		}
		// Last-write-wins: the in-flight query is superseded.
	default:
		return 0, &InvalidTransitionError{From: c.mode, Event: "submitSearch"}
	}
	c.mode = ModeSearch
	c.query = query
	c.searchResolved = false
	c.working.Invalidate()
	return c.issue(ModeSearch), nil
}

// ResolveSearch marks the response with the given sequence number as
// applied. Returns false when the response was superseded and must be
// dropped.
func (c *Controller) ResolveSearch(seq uint64) bool {
	if c.mode != ModeSearch || !c.Accept(ModeSearch, seq) {
		return false
	}
	c.searchResolved = true
	return true
}

// ClearSearch transitions Search -> Browse, restoring the horizon that
// was active before the search began. Forces a fresh fetch.
func (c *Controller) ClearSearch() (uint64, error) {
	if c.mode != ModeSearch {
		return 0, &InvalidTransitionError{From: c.mode, Event: "clearSearch"}
	}
	c.mode = ModeBrowse
	c.horizon = c.browseHorizon
	c.query = ""
	c.searchResolved = false
	c.working.Invalidate()
	return c.issue(ModeBrowse), nil
}

// ChangeHorizon switches the browse bucket and re-triggers a
// fetch+project cycle.
func (c *Controller) ChangeHorizon(h domain.Horizon) (uint64, error) {
	if c.mode != ModeBrowse {
		return 0, &InvalidTransitionError{From: c.mode, Event: "changeHorizon"}
	}
	parsed, err := domain.ParseHorizon(string(h))
	if err != nil {
		return 0, err
	}
	c.horizon = parsed
	c.working.Invalidate()
	return c.issue(ModeBrowse), nil
}

// SetTypeFilter restricts browsing to one item type. Empty clears the
// filter.
func (c *Controller) SetTypeFilter(t domain.ItemType) (uint64, error) {
	if c.mode != ModeBrowse {
		return 0, &InvalidTransitionError{From: c.mode, Event: "setTypeFilter"}
	}
	if t != "" {
		parsed, err := domain.ParseItemType(string(t))
		if err != nil {
			return 0, err
		}
		t = parsed
	}
	c.typeFilter = t
	c.working.Invalidate()
	return c.issue(ModeBrowse), nil
}

// EnterArchive switches to the completed-only page. Archive is reached
// only by direct navigation, never from Search.
func (c *Controller) EnterArchive() (uint64, error) {
	if c.mode != ModeBrowse {
		return 0, &InvalidTransitionError{From: c.mode, Event: "enterArchive"}
	}
	c.mode = ModeArchive
	c.working.Invalidate()
	return c.issue(ModeArchive), nil
}

// ExitArchive navigates back to the previous browse horizon.
func (c *Controller) ExitArchive() (uint64, error) {
	if c.mode != ModeArchive {
		return 0, &InvalidTransitionError{From: c.mode, Event: "exitArchive"}
	}
	c.mode = ModeBrowse
	c.working.Invalidate()
	return c.issue(ModeBrowse), nil
}

// BeginFetch issues a sequence number for a fetch of the current mode
// without changing state, used when re-loading the same view.
func (c *Controller) BeginFetch() uint64 {
	return c.issue(c.mode)
}
