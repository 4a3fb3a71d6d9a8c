package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/felixgeelhaar/daybook/internal/items/domain"
	"github.com/felixgeelhaar/daybook/internal/items/projection"
	"github.com/felixgeelhaar/daybook/internal/items/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Classify(ctx context.Context, text string) ([]domain.Item, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *mockStore) FetchItems(ctx context.Context, typeFilter domain.ItemType) ([]domain.Item, error) {
	args := m.Called(ctx, typeFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *mockStore) FetchGrouped(ctx context.Context, horizon domain.Horizon) ([]domain.Item, error) {
	args := m.Called(ctx, horizon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *mockStore) FetchGroupedAll(ctx context.Context) (domain.GroupedItems, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.GroupedItems), args.Error(1)
}

func (m *mockStore) Search(ctx context.Context, query string) ([]domain.Item, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *mockStore) UpdateItem(ctx context.Context, id string, patch domain.Patch) (domain.Item, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *mockStore) DeleteItem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStore) SyncExternal(ctx context.Context) (domain.SyncReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SyncReport), args.Error(1)
}

func (m *mockStore) RenderDayTimeline(ctx context.Context, date time.Time) (domain.TimelineResource, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(domain.TimelineResource), args.Error(1)
}

func (m *mockStore) Health(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func newTestCoordinator(store domain.Store) (*Coordinator, *session.Controller) {
	ctrl := session.NewController()
	coord := NewCoordinator(store, projection.NewProjector(), ctrl, nil)
	return coord, ctrl
}

func activeItem(id string) domain.Item {
	return domain.Item{ID: id, Type: domain.ItemTypeTask, Title: "item " + id}
}

func TestCoordinator_ToggleCompletion(t *testing.T) {
	ctx := context.Background()

	t.Run("completing removes the item optimistically", func(t *testing.T) {
		store := new(mockStore)
		coord, ctrl := newTestCoordinator(store)
		ctrl.WorkingCopy().Replace([]domain.Item{activeItem("1"), activeItem("2")})

		store.On("UpdateItem", ctx, "1", domain.CompletionPatch(true)).
			Return(domain.Item{ID: "1", Completed: true}, nil)

		require.NoError(t, coord.ToggleCompletion(ctx, "1", true))

		assert.Equal(t, []string{"2"}, itemIDs(coord.Items()))
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "FetchGrouped", mock.Anything, mock.Anything)
	})

	t.Run("completing twice is idempotent", func(t *testing.T) {
		store := new(mockStore)
		coord, ctrl := newTestCoordinator(store)
		ctrl.WorkingCopy().Replace([]domain.Item{activeItem("1")})

		store.On("UpdateItem", ctx, "1", domain.CompletionPatch(true)).
			Return(domain.Item{ID: "1", Completed: true}, nil).Twice()

		require.NoError(t, coord.ToggleCompletion(ctx, "1", true))
		require.NoError(t, coord.ToggleCompletion(ctx, "1", true))

		assert.Empty(t, coord.Items())
		store.AssertExpectations(t)
	})

	t.Run("restoring forces a re-fetch", func(t *testing.T) {
		store := new(mockStore)
		coord, ctrl := newTestCoordinator(store)
		ctrl.WorkingCopy().Replace([]domain.Item{activeItem("2")})

		store.On("UpdateItem", ctx, "1", domain.CompletionPatch(false)).
			Return(domain.Item{ID: "1"}, nil)
		store.On("FetchGrouped", ctx, domain.HorizonToday).
			Return([]domain.Item{activeItem("1"), activeItem("2")}, nil)

		require.NoError(t, coord.ToggleCompletion(ctx, "1", false))

		assert.Equal(t, []string{"1", "2"}, itemIDs(coord.Items()))
		store.AssertExpectations(t)
	})

	t.Run("failure leaves the working copy untouched", func(t *testing.T) {
		store := new(mockStore)
		coord, ctrl := newTestCoordinator(store)
		before := []domain.Item{activeItem("1")}
		ctrl.WorkingCopy().Replace(before)

		store.On("UpdateItem", ctx, "1", domain.CompletionPatch(true)).
			Return(domain.Item{}, fmt.Errorf("%w: boom", domain.ErrTransport))

		err := coord.ToggleCompletion(ctx, "1", true)
		require.ErrorIs(t, err, domain.ErrTransport)
		assert.Equal(t, []string{"1"}, itemIDs(coord.Items()))
	})
}

func TestCoordinator_DeleteItem(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a confirmation signal", func(t *testing.T) {
		store := new(mockStore)
		coord, ctrl := newTestCoordinator(store)
		ctrl.WorkingCopy().Replace([]domain.Item{activeItem("2")})

		err := coord.DeleteItem(ctx, "2", false)
		require.ErrorIs(t, err, ErrConfirmationRequired)

		assert.Equal(t, []string{"2"}, itemIDs(coord.Items()))
		store.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything)
	})

	t.Run("removes optimistically and issues the request", func(t *testing.T) {
		store := new(mockStore)
		coord, ctrl := newTestCoordinator(store)
		ctrl.WorkingCopy().Replace([]domain.Item{activeItem("1"), activeItem("2")})

		store.On("DeleteItem", ctx, "1").Return(nil)

		require.NoError(t, coord.DeleteItem(ctx, "1", true))
		assert.Equal(t, []string{"2"}, itemIDs(coord.Items()))
		store.AssertExpectations(t)
	})

	t.Run("already-deleted id counts as resolved", func(t *testing.T) {
		store := new(mockStore)
		coord, ctrl := newTestCoordinator(store)
		ctrl.WorkingCopy().Replace([]domain.Item{activeItem("1")})

		store.On("DeleteItem", ctx, "1").Return(fmt.Errorf("%w: id 1", domain.ErrNotFound))

		require.NoError(t, coord.DeleteItem(ctx, "1", true))
	})

	t.Run("failed delete reconciles via re-fetch, not rollback", func(t *testing.T) {
		store := new(mockStore)
		coord, ctrl := newTestCoordinator(store)
		ctrl.WorkingCopy().Replace([]domain.Item{activeItem("1"), activeItem("2")})

		store.On("DeleteItem", ctx, "1").Return(fmt.Errorf("%w: boom", domain.ErrTransport))
		store.On("FetchGrouped", ctx, domain.HorizonToday).
			Return([]domain.Item{activeItem("1"), activeItem("2")}, nil)

		err := coord.DeleteItem(ctx, "1", true)
		require.ErrorIs(t, err, domain.ErrTransport)

		// The authoritative store still has the item, so the re-fetch
		// brings it back.
		assert.Equal(t, []string{"1", "2"}, itemIDs(coord.Items()))
		store.AssertExpectations(t)
	})
}

func TestCoordinator_SubmitNaturalLanguageInput(t *testing.T) {
	ctx := context.Background()

	t.Run("classification failure creates nothing", func(t *testing.T) {
		store := new(mockStore)
		coord, ctrl := newTestCoordinator(store)
		ctrl.WorkingCopy().Replace([]domain.Item{activeItem("1")})

		store.On("Classify", ctx, "gibberish").
			Return(nil, fmt.Errorf("%w: no intent found", domain.ErrClassificationFailed))

		_, err := coord.SubmitNaturalLanguageInput(ctx, "gibberish")
		require.ErrorIs(t, err, domain.ErrClassificationFailed)
		assert.Equal(t, []string{"1"}, itemIDs(coord.Items()))
	})

	t.Run("appends cheaply on the all horizon", func(t *testing.T) {
		store := new(mockStore)
		coord, ctrl := newTestCoordinator(store)
		_, err := ctrl.ChangeHorizon(domain.HorizonAll)
		require.NoError(t, err)
		ctrl.WorkingCopy().Replace([]domain.Item{activeItem("1")})

		store.On("Classify", ctx, "buy milk").
			Return([]domain.Item{activeItem("9")}, nil)

		created, err := coord.SubmitNaturalLanguageInput(ctx, "buy milk")
		require.NoError(t, err)
		assert.Len(t, created, 1)
		assert.Equal(t, []string{"1", "9"}, itemIDs(coord.Items()))
		store.AssertNotCalled(t, "FetchItems", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "FetchGroupedAll", mock.Anything)
	})

	t.Run("re-fetches when bucket placement is needed", func(t *testing.T) {
		store := new(mockStore)
		coord, ctrl := newTestCoordinator(store)
		ctrl.WorkingCopy().Replace([]domain.Item{activeItem("1")})

		store.On("Classify", ctx, "call mom at 9").
			Return([]domain.Item{activeItem("9")}, nil)
		store.On("FetchGrouped", ctx, domain.HorizonToday).
			Return([]domain.Item{activeItem("1"), activeItem("9")}, nil)

		_, err := coord.SubmitNaturalLanguageInput(ctx, "call mom at 9")
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "9"}, itemIDs(coord.Items()))
		store.AssertExpectations(t)
	})
}

func TestCoordinator_SyncExternal(t *testing.T) {
	ctx := context.Background()

	t.Run("always re-fetches and keeps the mode", func(t *testing.T) {
		store := new(mockStore)
		coord, ctrl := newTestCoordinator(store)
		_, err := ctrl.ChangeHorizon(domain.HorizonUpcoming)
		require.NoError(t, err)

		store.On("SyncExternal", ctx).Return(domain.SyncReport{Calendar: 2, Email: 3}, nil)
		store.On("FetchGrouped", ctx, domain.HorizonUpcoming).
			Return([]domain.Item{activeItem("1")}, nil)

		report, err := coord.SyncExternal(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, report.Total())

		assert.Equal(t, session.ModeBrowse, ctrl.Mode())
		assert.Equal(t, domain.HorizonUpcoming, ctrl.Horizon())
		store.AssertExpectations(t)
	})

	t.Run("failure leaves state untouched", func(t *testing.T) {
		store := new(mockStore)
		coord, ctrl := newTestCoordinator(store)
		ctrl.WorkingCopy().Replace([]domain.Item{activeItem("1")})

		store.On("SyncExternal", ctx).
			Return(domain.SyncReport{}, fmt.Errorf("%w: boom", domain.ErrTransport))

		_, err := coord.SyncExternal(ctx)
		require.ErrorIs(t, err, domain.ErrTransport)
		assert.Equal(t, []string{"1"}, itemIDs(coord.Items()))
	})
}

func TestCoordinator_SearchSupersession(t *testing.T) {
	store := new(mockStore)
	coord, _ := newTestCoordinator(store)

	seqA, err := coord.BeginSearch("a")
	require.NoError(t, err)
	seqB, err := coord.BeginSearch("b")
	require.NoError(t, err)

	resultsA := []domain.Item{activeItem("from-a")}
	resultsB := []domain.Item{activeItem("from-b")}

	// "b" resolves first; "a" lands afterwards and must be dropped.
	applied, err := coord.CompleteSearch(seqB, resultsB)
	require.NoError(t, err)
	assert.Equal(t, []string{"from-b"}, itemIDs(applied))

	_, err = coord.CompleteSearch(seqA, resultsA)
	require.ErrorIs(t, err, ErrSuperseded)

	assert.Equal(t, []string{"from-b"}, itemIDs(coord.Items()))
}

func TestCoordinator_Search(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	coord, ctrl := newTestCoordinator(store)

	done := activeItem("done")
	done.Completed = true
	store.On("Search", ctx, "milk").
		Return([]domain.Item{activeItem("1"), done, activeItem("2")}, nil)

	got, err := coord.Search(ctx, "milk")
	require.NoError(t, err)

	// Rank order preserved, completed results removed.
	assert.Equal(t, []string{"1", "2"}, itemIDs(got))
	assert.Equal(t, session.ModeSearch, ctrl.Mode())
}

func TestCoordinator_ClearSearchRestoresBrowse(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	coord, ctrl := newTestCoordinator(store)

	store.On("Search", ctx, "milk").Return([]domain.Item{activeItem("s")}, nil)
	store.On("FetchGrouped", ctx, domain.HorizonToday).
		Return([]domain.Item{activeItem("1")}, nil)

	_, err := coord.Search(ctx, "milk")
	require.NoError(t, err)

	items, err := coord.ClearSearch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, itemIDs(items))
	assert.Equal(t, session.ModeBrowse, ctrl.Mode())
	store.AssertExpectations(t)
}

func TestCoordinator_RefreshAllUsesCompositeGrouping(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	coord, ctrl := newTestCoordinator(store)
	_, err := ctrl.ChangeHorizon(domain.HorizonAll)
	require.NoError(t, err)

	grouped := domain.GroupedItems{
		domain.HorizonToday:    {activeItem("t1")},
		domain.HorizonTomorrow: {activeItem("m1")},
		domain.HorizonUpcoming: {activeItem("u1")},
	}
	store.On("FetchGroupedAll", ctx).Return(grouped, nil)

	items, err := coord.Refresh(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"t1", "m1", "u1"}, itemIDs(items))
	store.AssertExpectations(t)
}

func itemIDs(items []domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
