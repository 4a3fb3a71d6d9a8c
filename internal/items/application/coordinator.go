// Package application coordinates mutations against the item store:
// optimistic local patches where the outcome is locally decidable,
// forced re-fetches where it is not.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/daybook/internal/items/domain"
	"github.com/felixgeelhaar/daybook/internal/items/projection"
	"github.com/felixgeelhaar/daybook/internal/items/session"
)

// ErrConfirmationRequired is returned when a delete is requested
// without the caller's explicit confirmation signal. No request is
// issued and the working copy is untouched.
var ErrConfirmationRequired = errors.New("delete requires confirmation")

// ErrSuperseded marks a response that lost the last-write-wins race and
// was discarded without touching the working copy.
var ErrSuperseded = errors.New("response superseded by a newer request")

// mutationKind enumerates the mutations the coordinator arbitrates.
type mutationKind int

const (
	mutationCapture mutationKind = iota
	mutationComplete
	mutationRestore
	mutationDelete
	mutationSync
)

// reconcileAction is how local state is reconciled after a mutation
// succeeds against the store.
type reconcileAction int

const (
	// reconcileRemoveLocal patches the working copy in place.
	reconcileRemoveLocal reconcileAction = iota
	// reconcileAppendLocal appends to the working copy when cheap,
	// otherwise falls back to reconcileRefetch.
	reconcileAppendLocal
	// reconcileRefetch forces a full fetch+project cycle because the
	// correct bucket or rank cannot be inferred locally.
	reconcileRefetch
)

// reconcilePolicies is the per-mutation reconciliation table. Keeping
// it in one place lets each policy be exercised independently of the
// call sites.
var reconcilePolicies = map[mutationKind]reconcileAction{
	mutationCapture:  reconcileAppendLocal,
	mutationComplete: reconcileRemoveLocal,
	mutationRestore:  reconcileRefetch,
	mutationDelete:   reconcileRemoveLocal,
	mutationSync:     reconcileRefetch,
}

// Coordinator applies item mutations for one page session and keeps
// the session's working copy consistent with the authoritative store.
type Coordinator struct {
	store     domain.Store
	projector *projection.Projector
	ctrl      *session.Controller
	logger    *slog.Logger
}

// NewCoordinator creates a coordinator bound to one session controller.
func NewCoordinator(store domain.Store, projector *projection.Projector, ctrl *session.Controller, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		store:     store,
		projector: projector,
		ctrl:      ctrl,
		logger:    logger,
	}
}

// Controller exposes the session state machine to the caller.
func (c *Coordinator) Controller() *session.Controller { return c.ctrl }

// Items returns the current working copy snapshot.
func (c *Coordinator) Items() []domain.Item {
	return c.ctrl.WorkingCopy().Items()
}

// Refresh performs an authoritative fetch for the current mode and
// replaces the working copy with the projected result. A response that
// arrives after a newer request for the same mode was issued is
// discarded.
func (c *Coordinator) Refresh(ctx context.Context) ([]domain.Item, error) {
	seq := c.ctrl.BeginFetch()
	return c.fetchAndProject(ctx, seq)
}

func (c *Coordinator) fetchAndProject(ctx context.Context, seq uint64) ([]domain.Item, error) {
	mode := c.ctrl.Mode()
	view := c.ctrl.View()

	raw, view, err := c.fetchRaw(ctx, view)
	if err != nil {
		return nil, err
	}
	if !c.ctrl.Accept(mode, seq) {
		c.logger.Debug("discarding superseded fetch", "mode", mode.String(), "seq", seq)
		return nil, ErrSuperseded
	}

	projected, err := c.projector.Project(raw, view)
	if err != nil {
		return nil, err
	}
	if mode == session.ModeSearch {
		if !c.ctrl.ResolveSearch(seq) {
			return nil, ErrSuperseded
		}
	}
	c.ctrl.WorkingCopy().Replace(projected)
	return projected, nil
}

// fetchRaw selects the store operation for a view and returns the raw
// collection plus the descriptor adjusted for what was fetched.
func (c *Coordinator) fetchRaw(ctx context.Context, view domain.ViewDescriptor) ([]domain.Item, domain.ViewDescriptor, error) {
	switch {
	case view.CompletedOnly:
		raw, err := c.store.FetchItems(ctx, "")
		return raw, view, err

	case view.IsSearch():
		raw, err := c.store.Search(ctx, view.SearchQuery)
		return raw, view, err

	case view.Horizon == domain.HorizonAll:
		if view.TypeFilter != "" {
			raw, err := c.store.FetchItems(ctx, view.TypeFilter)
			return raw, view, err
		}
		grouped, err := c.store.FetchGroupedAll(ctx)
		if err != nil {
			return nil, view, err
		}
		view.Pregrouped = true
		return flattenGrouped(grouped), view, nil

	default:
		raw, err := c.store.FetchGrouped(ctx, view.Horizon)
		if err != nil {
			return nil, view, err
		}
		view.Pregrouped = true
		return raw, view, nil
	}
}

// flattenGrouped joins the composite bucket map in horizon order,
// keeping backend order within each bucket.
func flattenGrouped(grouped domain.GroupedItems) []domain.Item {
	var out []domain.Item
	for _, h := range []domain.Horizon{domain.HorizonToday, domain.HorizonTomorrow, domain.HorizonUpcoming} {
		out = append(out, grouped[h]...)
	}
	return out
}

// SubmitNaturalLanguageInput sends free text to the classifier and
// reconciles the created items into the working copy. A classification
// failure is surfaced unchanged; nothing partial is created or applied.
func (c *Coordinator) SubmitNaturalLanguageInput(ctx context.Context, text string) ([]domain.Item, error) {
	created, err := c.store.Classify(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("submit input: %w", err)
	}

	switch c.policy(mutationCapture, created) {
	case reconcileAppendLocal:
		c.ctrl.WorkingCopy().Append(created...)
	case reconcileRefetch:
		if _, err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
			return created, err
		}
	}
	return created, nil
}

// policy resolves the reconciliation table entry for a mutation,
// downgrading a cheap append to a re-fetch when the created items need
// bucket placement the coordinator cannot perform locally.
func (c *Coordinator) policy(kind mutationKind, created []domain.Item) reconcileAction {
	action := reconcilePolicies[kind]
	if action != reconcileAppendLocal {
		return action
	}
	if !c.canCheaplyAppend(created) {
		return reconcileRefetch
	}
	return reconcileAppendLocal
}

// canCheaplyAppend reports whether created items can join the working
// copy without recomputing buckets or ranks: only in Browse over the
// full "all" horizon, with every item passing the active type filter.
func (c *Coordinator) canCheaplyAppend(created []domain.Item) bool {
	if c.ctrl.Mode() != session.ModeBrowse || c.ctrl.Horizon() != domain.HorizonAll {
		return false
	}
	if !c.ctrl.WorkingCopy().Valid() {
		return false
	}
	if filter := c.ctrl.TypeFilter(); filter != "" {
		for _, it := range created {
			if it.Type != filter {
				return false
			}
		}
	}
	return true
}

// ToggleCompletion flips an item's completed flag.
//
// Completing under a view that excludes completed items removes the
// item optimistically. Restoring always forces a re-fetch because the
// item's correct bucket or rank cannot be inferred locally.
func (c *Coordinator) ToggleCompletion(ctx context.Context, id string, completed bool) error {
	if _, err := c.store.UpdateItem(ctx, id, domain.CompletionPatch(completed)); err != nil {
		return fmt.Errorf("toggle completion: %w", err)
	}

	kind := mutationComplete
	if !completed {
		kind = mutationRestore
	}
	switch c.policy(kind, nil) {
	case reconcileRemoveLocal:
		if !c.ctrl.View().IncludeCompleted && !c.ctrl.View().CompletedOnly {
			c.ctrl.WorkingCopy().Remove(id)
		}
	case reconcileRefetch:
		if _, err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
			return err
		}
	}
	return nil
}

// DeleteItem removes an item after the caller has confirmed. The
// removal is applied optimistically; a failed request is resolved by
// re-synchronizing with the store, never by re-inserting a stale local
// copy. Deleting an id the store no longer knows counts as resolved.
func (c *Coordinator) DeleteItem(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	c.ctrl.WorkingCopy().Remove(id)

	if err := c.store.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if _, rerr := c.Refresh(ctx); rerr != nil && !errors.Is(rerr, ErrSuperseded) {
			c.logger.Warn("reconciling re-fetch after failed delete also failed", "error", rerr)
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// SyncExternal pulls external sources into the store and then forces a
// full fetch+project cycle. Merged items are never applied locally, and
// the interaction mode is left untouched.
func (c *Coordinator) SyncExternal(ctx context.Context) (domain.SyncReport, error) {
	report, err := c.store.SyncExternal(ctx)
	if err != nil {
		return domain.SyncReport{}, fmt.Errorf("sync external: %w", err)
	}
	if _, err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		return report, err
	}
	return report, nil
}

// Search submits a query through the mode controller and applies the
// result under the supersession discipline. BeginSearch/CompleteSearch
// are split so interleaved completions can be driven explicitly.
func (c *Coordinator) Search(ctx context.Context, query string) ([]domain.Item, error) {
	seq, err := c.BeginSearch(query)
	if err != nil {
		return nil, err
	}
	raw, err := c.store.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return c.CompleteSearch(seq, raw)
}

// BeginSearch transitions into search mode and returns the sequence
// number assigned to the query's request.
func (c *Coordinator) BeginSearch(query string) (uint64, error) {
	return c.ctrl.SubmitSearch(query)
}

// CompleteSearch applies a ranked result set for the request with the
// given sequence number. A superseded response is discarded and
// ErrSuperseded returned; the working copy keeps whatever the latest
// response installed.
func (c *Coordinator) CompleteSearch(seq uint64, raw []domain.Item) ([]domain.Item, error) {
	if !c.ctrl.Accept(session.ModeSearch, seq) {
		return nil, ErrSuperseded
	}
	projected, err := c.projector.Project(raw, c.ctrl.View())
	if err != nil {
		return nil, err
	}
	if !c.ctrl.ResolveSearch(seq) {
		return nil, ErrSuperseded
	}
	c.ctrl.WorkingCopy().Replace(projected)
	return projected, nil
}

// ClearSearch leaves search mode and re-loads the browse view that was
// active before the search began.
func (c *Coordinator) ClearSearch(ctx context.Context) ([]domain.Item, error) {
	seq, err := c.ctrl.ClearSearch()
	if err != nil {
		return nil, err
	}
	return c.fetchAndProject(ctx, seq)
}
