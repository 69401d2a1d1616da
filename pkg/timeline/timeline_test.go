package timeline_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAssistant answers from functions. A non-nil gate blocks Simplify until it is closed.
type fakeAssistant struct {
	simplify func(prompt string) (string, error)
	title    func(prompt string) (string, error)
	gate     chan struct{}
	entered  chan struct{}
}

func (f *fakeAssistant) Simplify(ctx context.Context, prompt string) (string, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.simplify == nil {
		return "simpler: " + prompt, nil
	}
	return f.simplify(prompt)
}

func (f *fakeAssistant) GenerateTitle(ctx context.Context, prompt string) (string, error) {
	if f.title == nil {
		return "Title", nil
	}
	return f.title(prompt)
}

// recorder keeps every rendered view.
type recorder struct {
	mu    sync.Mutex
	views []domain.View
}

func (r *recorder) Render(ctx context.Context, v domain.View) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, v)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *recorder) last() domain.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views[len(r.views)-1]
}

// countingStore counts saves on top of a memory store.
type countingStore struct {
	*memory.Store
	mu    sync.Mutex
	saves int
}

func (s *countingStore) Save(ctx context.Context, key string, groups []domain.Group) error {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	return s.Store.Save(ctx, key, groups)
}

func (s *countingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type fixture struct {
	tl        *timeline.Timeline
	assistant *fakeAssistant
	store     *countingStore
	renders   *recorder
}

func newFixture(t *testing.T, opts ...timeline.Option) *fixture {
	t.Helper()
	f := &fixture{
		assistant: &fakeAssistant{},
		store:     &countingStore{Store: memory.NewStore()},
		renders:   &recorder{},
	}
	base := []timeline.Option{
		timeline.WithStore(f.store),
		timeline.WithRenderer(f.renders),
		timeline.WithLogger(logging.NewNop()),
	}
	f.tl = timeline.New(f.assistant, append(base, opts...)...)
	return f
}

func (f *fixture) submit(t *testing.T, text string) *timeline.Task {
	t.Helper()
	task, err := f.tl.Submit(context.Background(), text)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, task.Wait(ctx))
	return task
}

func (f *fixture) snapshot(t *testing.T) []domain.Group {
	t.Helper()
	groups, err := f.store.Load(context.Background(), timeline.DefaultKey)
	require.NoError(t, err)
	return groups
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	f.assistant.title = func(string) (string, error) { return "  Max Subarray \n", nil }

	f.submit(t, "Two sum")
	task := f.submit(t, "  Find the maximum subarray sum  ")

	view := f.tl.View()
	require.Len(t, view.Groups, 2)

	first := view.Groups[0]
	assert.Equal(t, task.GroupID, first.ID, "new group is first")
	assert.Equal(t, 2, first.ID)
	assert.Equal(t, "Max Subarray", first.Title)
	assert.Equal(t, "Max Subarray", task.Title())
	assert.True(t, first.Expanded)
	require.Len(t, first.Items, 1)
	assert.Equal(t, domain.Item{ID: 1, Description: "Find the maximum subarray sum", Level: 0}, first.Items[0])

	snap := f.snapshot(t)
	require.Len(t, snap, 2)
	assert.Equal(t, "Max Subarray", snap[0].Title)
}

func TestSubmit_RendersPlaceholderFirst(t *testing.T) {
	f := newFixture(t)
	release := make(chan struct{})
	f.assistant.title = func(string) (string, error) {
		<-release
		return "Later", nil
	}

	task, err := f.tl.Submit(context.Background(), "Sort an array")
	require.NoError(t, err)

	assert.Equal(t, domain.PlaceholderTitle, f.renders.last().Groups[0].Title)
	assert.Equal(t, domain.PlaceholderTitle, f.snapshot(t)[0].Title)

	close(release)
	f.tl.Wait()
	<-task.Done()
	assert.Equal(t, "Later", f.tl.View().Groups[0].Title)
}

func TestSubmit_Empty(t *testing.T) {
	f := newFixture(t)

	task, err := f.tl.Submit(context.Background(), "  \t\n ")

	assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
	assert.Nil(t, task)
	assert.Empty(t, f.tl.View().Groups)
	assert.Zero(t, f.renders.count())
	assert.Zero(t, f.store.count())
}

func TestSubmit_TitleFallback(t *testing.T) {
	question := "Find the maximum subarray sum in an array of integers"

	t.Run("On Error", func(t *testing.T) {
		f := newFixture(t)
		f.assistant.title = func(string) (string, error) { return "", errors.New("down") }

		task := f.submit(t, question)
		assert.Equal(t, "Find the maximum...", task.Title())
		assert.Equal(t, "Find the maximum...", f.tl.View().Groups[0].Title)
	})

	t.Run("On Empty Output", func(t *testing.T) {
		f := newFixture(t)
		f.assistant.title = func(string) (string, error) { return "   ", nil }

		f.submit(t, question)
		assert.Equal(t, "Find the maximum...", f.tl.View().Groups[0].Title)
	})
}

func TestSubmit_TitleDiscardedAfterDelete(t *testing.T) {
	f := newFixture(t)
	release := make(chan struct{})
	f.assistant.title = func(string) (string, error) {
		<-release
		return "Too Late", nil
	}

	task, err := f.tl.Submit(context.Background(), "Gone soon")
	require.NoError(t, err)

	removed, err := f.tl.DeleteGroup(context.Background(), task.GroupID)
	require.NoError(t, err)
	require.True(t, removed)

	close(release)
	<-task.Done()

	assert.Empty(t, f.tl.View().Groups, "group must not be resurrected")
	assert.Empty(t, f.snapshot(t))
}

func TestGroupIDs_NotReused(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "one")
	f.submit(t, "two")
	f.submit(t, "three")

	_, err := f.tl.DeleteGroup(context.Background(), 3)
	require.NoError(t, err)

	task := f.submit(t, "four")
	assert.Equal(t, 4, task.GroupID)
}

func TestGroupIDs_ContinueAfterLoad(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Save(context.Background(), timeline.DefaultKey, []domain.Group{
		{ID: 7, Title: "Seven", Items: []domain.Item{{ID: 1, Description: "q"}}},
	}))

	tl := timeline.New(&fakeAssistant{}, timeline.WithStore(store), timeline.WithLogger(logging.NewNop()))
	require.NoError(t, tl.Load(context.Background()))

	task, err := tl.Submit(context.Background(), "next")
	require.NoError(t, err)
	assert.Equal(t, 8, task.GroupID)
	tl.Wait()
}

func TestSimplify(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "Find the maximum subarray sum")

	require.NoError(t, f.tl.Simplify(context.Background(), 0, 0))

	rendered := f.renders.last().Groups[0]
	require.Len(t, rendered.Items, 2)
	assert.True(t, rendered.Items[1].IsNew, "first render sees the new item")

	g := f.tl.View().Groups[0]
	assert.True(t, g.Expanded)
	assert.True(t, g.Items[0].Simplified)
	assert.False(t, g.Items[0].Simplifying)

	child := g.Items[1]
	assert.Equal(t, 2, child.ID)
	assert.Equal(t, 1, child.Level)
	assert.Equal(t, "simpler: Find the maximum subarray sum", child.Description)
	assert.False(t, child.IsNew, "isNew is consumed by the render")

	require.NoError(t, f.tl.Simplify(context.Background(), 0, 1))
	g = f.tl.View().Groups[0]
	require.Len(t, g.Items, 3)
	assert.Equal(t, 2, g.Items[2].Level)
	assert.Equal(t, 3, g.Items[2].ID)
}

func TestSimplify_MarksInFlightAndRejectsReentry(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "Binary search")
	f.assistant.gate = make(chan struct{})
	f.assistant.entered = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() { done <- f.tl.Simplify(context.Background(), 0, 0) }()
	<-f.assistant.entered

	assert.True(t, f.renders.last().Groups[0].Items[0].Simplifying)
	assert.True(t, f.tl.View().Groups[0].Items[0].Simplifying)
	assert.ErrorIs(t, f.tl.Simplify(context.Background(), 0, 0), domain.ErrSimplifyInFlight)

	close(f.assistant.gate)
	require.NoError(t, <-done)

	g := f.tl.View().Groups[0]
	assert.False(t, g.Items[0].Simplifying)
	assert.Len(t, g.Items, 2, "only one request produced a child")
}

func TestSimplify_Failure(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "Binary search")
	before := f.tl.View()
	f.assistant.simplify = func(string) (string, error) { return "", errors.New("HTTP error! status: 500") }

	err := f.tl.Simplify(context.Background(), 0, 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 500")
	after := f.tl.View()
	assert.Equal(t, before, after, "state is unchanged and simplifying is cleared")
	assert.False(t, f.renders.last().Groups[0].Items[0].Simplifying)
}

func TestSimplify_EmptyOutputIsNoop(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "Binary search")
	f.assistant.simplify = func(string) (string, error) { return " ", nil }

	require.NoError(t, f.tl.Simplify(context.Background(), 0, 0))

	g := f.tl.View().Groups[0]
	assert.Len(t, g.Items, 1)
	assert.False(t, g.Items[0].Simplified)
}

func TestSimplify_UnderstoodRejected(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "Binary search")
	require.NoError(t, f.tl.ToggleUnderstood(context.Background(), 0, 0))

	assert.ErrorIs(t, f.tl.Simplify(context.Background(), 0, 0), domain.ErrItemUnderstood)
}

func TestSimplify_BadIndexes(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "Binary search")

	assert.ErrorIs(t, f.tl.Simplify(context.Background(), 3, 0), domain.ErrGroupNotFound)
	assert.ErrorIs(t, f.tl.Simplify(context.Background(), 0, 3), domain.ErrItemNotFound)
	assert.ErrorIs(t, f.tl.Regenerate(context.Background(), -1, 0), domain.ErrGroupNotFound)
	assert.ErrorIs(t, f.tl.ToggleUnderstood(context.Background(), 0, 9), domain.ErrItemNotFound)
	assert.ErrorIs(t, f.tl.ToggleExpanded(context.Background(), 1), domain.ErrGroupNotFound)
}

func TestSimplify_PrunesStaleChain(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "q")
	ctx := context.Background()
	require.NoError(t, f.tl.Simplify(ctx, 0, 0))
	require.NoError(t, f.tl.Simplify(ctx, 0, 1))
	require.Len(t, f.tl.View().Groups[0].Items, 3)

	// Branch again from the original: the old level 1 and 2 items are dropped.
	require.NoError(t, f.tl.Regenerate(ctx, 0, 0))
	require.NoError(t, f.tl.Simplify(ctx, 0, 0))

	g := f.tl.View().Groups[0]
	require.Len(t, g.Items, 2)
	assert.Equal(t, 0, g.Items[0].Level)
	assert.Equal(t, 1, g.Items[1].Level)
	assert.Equal(t, 2, g.Items[1].ID)
}

func TestRegenerate(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "q")
	ctx := context.Background()
	require.NoError(t, f.tl.Simplify(ctx, 0, 0))
	require.NoError(t, f.tl.Simplify(ctx, 0, 1))

	require.NoError(t, f.tl.Regenerate(ctx, 0, 1))

	g := f.tl.View().Groups[0]
	require.Len(t, g.Items, 2)
	assert.False(t, g.Items[1].Simplified)
	assert.True(t, g.Items[0].Simplified)

	require.NoError(t, f.tl.Simplify(ctx, 0, 1))
	g = f.tl.View().Groups[0]
	require.Len(t, g.Items, 3, "regenerate then simplify yields a single child")
	assert.Equal(t, 2, g.Items[2].Level)
}

func TestToggleUnderstood(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "q")
	ctx := context.Background()
	require.NoError(t, f.tl.Simplify(ctx, 0, 0))

	require.NoError(t, f.tl.ToggleUnderstood(ctx, 0, 0))
	g := f.tl.View().Groups[0]
	assert.True(t, g.Items[0].Understood)
	assert.False(t, g.Understood)

	require.NoError(t, f.tl.ToggleUnderstood(ctx, 0, 1))
	assert.True(t, f.tl.View().Groups[0].Understood)

	saves := f.store.count()
	require.NoError(t, f.tl.ToggleUnderstood(ctx, 0, 1))
	assert.False(t, f.tl.View().Groups[0].Understood)
	assert.Equal(t, saves+1, f.store.count())

	assert.True(t, f.snapshot(t)[0].Items[0].Understood)
}

func TestToggleExpanded_RendersWithoutPersisting(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "q")
	saves, renders := f.store.count(), f.renders.count()

	require.NoError(t, f.tl.ToggleExpanded(context.Background(), 0))

	assert.False(t, f.tl.View().Groups[0].Expanded)
	assert.Equal(t, saves, f.store.count())
	assert.Equal(t, renders+1, f.renders.count())
}

func TestDeleteGroup(t *testing.T) {
	t.Run("Confirmed", func(t *testing.T) {
		var asked string
		f := newFixture(t, timeline.WithConfirmer(ports.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
			asked = prompt
			return true, nil
		})))
		f.submit(t, "one")
		f.submit(t, "two")

		removed, err := f.tl.DeleteGroup(context.Background(), 1)

		require.NoError(t, err)
		assert.True(t, removed)
		assert.Equal(t, timeline.DeletePrompt, asked)

		// Reload from the same store: the group stays gone.
		reloaded := timeline.New(&fakeAssistant{}, timeline.WithStore(f.store), timeline.WithLogger(logging.NewNop()))
		require.NoError(t, reloaded.Load(context.Background()))
		groups := reloaded.View().Groups
		require.Len(t, groups, 1)
		assert.Equal(t, 2, groups[0].ID)
	})

	t.Run("Declined", func(t *testing.T) {
		f := newFixture(t, timeline.WithConfirmer(ports.ConfirmFunc(func(context.Context, string) (bool, error) {
			return false, nil
		})))
		f.submit(t, "one")
		saves := f.store.count()

		removed, err := f.tl.DeleteGroup(context.Background(), 1)

		require.NoError(t, err)
		assert.False(t, removed)
		assert.Len(t, f.tl.View().Groups, 1)
		assert.Equal(t, saves, f.store.count())
	})

	t.Run("Unknown Group", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.tl.DeleteGroup(context.Background(), 42)
		assert.ErrorIs(t, err, domain.ErrGroupNotFound)
	})
}

func TestToggleDeleteMode(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "q")
	ctx := context.Background()
	saves := f.store.count()

	on, err := f.tl.ToggleDeleteMode(ctx)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, f.renders.last().DeleteMode)
	assert.Equal(t, saves, f.store.count(), "entering delete mode does not persist")

	off, err := f.tl.ToggleDeleteMode(ctx)
	require.NoError(t, err)
	assert.False(t, off)
	assert.Equal(t, saves+1, f.store.count(), "leaving delete mode checkpoints")
}

func TestSnapshotRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.submit(t, "first question")
	f.submit(t, "second question")
	require.NoError(t, f.tl.Simplify(ctx, 0, 0))
	require.NoError(t, f.tl.Simplify(ctx, 0, 1))

	snap := f.snapshot(t)
	live := f.tl.View().Groups
	require.Len(t, snap, len(live))
	for i, g := range snap {
		assert.Equal(t, live[i].ID, g.ID)
		assert.Equal(t, live[i].Title, g.Title)
		assert.False(t, g.Expanded)
		require.Len(t, g.Items, 1)
		assert.Equal(t, live[i].Items[0].Description, g.Items[0].Description)
	}

	reloaded := timeline.New(&fakeAssistant{}, timeline.WithStore(f.store), timeline.WithLogger(logging.NewNop()))
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, snap, reloaded.View().Groups)
}

func TestLoad_MissingSnapshot(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.tl.Load(context.Background()))

	assert.Empty(t, f.tl.View().Groups)
	assert.Equal(t, 1, f.renders.count())
}

func TestWithKey(t *testing.T) {
	f := newFixture(t, timeline.WithKey("other"))
	f.submit(t, "q")

	_, err := f.store.Load(context.Background(), timeline.DefaultKey)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	groups, err := f.store.Load(context.Background(), "other")
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestRedraw(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "q")
	saves, renders := f.store.count(), f.renders.count()

	f.tl.Redraw(context.Background())

	assert.Equal(t, saves, f.store.count())
	assert.Equal(t, renders+1, f.renders.count())
}
