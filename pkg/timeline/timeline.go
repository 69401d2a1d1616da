package timeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
)

// Timeline is the question timeline and its collaborators.
// It is safe for concurrent use.
type Timeline struct {
	mu         sync.Mutex
	groups     []domain.Group
	deleteMode bool

	// lastGroupID is the session high-water mark; deleted ids are never reused.
	lastGroupID int

	pending sync.WaitGroup

	assistant ports.Assistant
	store     ports.SnapshotStore
	renderer  ports.Renderer
	confirmer ports.Confirmer
	key       string
	logger    *slog.Logger
}

// New creates an empty Timeline backed by assistant.
func New(assistant ports.Assistant, opts ...Option) *Timeline {
	t := &Timeline{assistant: assistant}
	for _, opt := range append(defaults(), opts...) {
		opt(t)
	}
	return t
}

// Load replaces the timeline with the stored snapshot and renders it.
// A missing snapshot is an empty timeline.
func (t *Timeline) Load(ctx context.Context) error {
	groups, err := t.store.Load(ctx, t.key)
	if err != nil && !errors.Is(err, domain.ErrSnapshotNotFound) {
		return fmt.Errorf("failed to load timeline: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.groups = groups
	for i := range t.groups {
		t.groups[i].Understood = t.groups[i].AllUnderstood()
	}
	if hw := domain.NextGroupID(t.groups) - 1; hw > t.lastGroupID {
		t.lastGroupID = hw
	}
	t.renderLocked(ctx)
	return nil
}

// View returns a copy of the current state.
func (t *Timeline) View() domain.View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewLocked()
}

// Redraw renders the current state without mutating it.
func (t *Timeline) Redraw(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderLocked(ctx)
}

// Submit adds a question as a new group at the top of the timeline
// and requests its title in the background.
func (t *Timeline) Submit(ctx context.Context, text string) (*Task, error) {
	question := strings.TrimSpace(text)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	t.mu.Lock()
	id := t.allocGroupIDLocked()
	group := domain.NewGroup(id, question)
	group.Expanded = true
	t.groups = append([]domain.Group{group}, t.groups...)
	t.commitLocked(ctx)
	t.mu.Unlock()

	task := newTask(id)
	t.pending.Add(1)
	go func() {
		defer t.pending.Done()
		t.resolveTitle(context.WithoutCancel(ctx), ctx, task, question)
	}()
	return task, nil
}

func (t *Timeline) resolveTitle(commitCtx, callCtx context.Context, task *Task, question string) {
	title, err := t.assistant.GenerateTitle(callCtx, question)
	title = strings.TrimSpace(title)
	if err != nil {
		t.logger.Warn("Title generation failed, using fallback", "group", task.GroupID, "error", err)
		title = domain.FallbackTitle(question)
	} else if title == "" {
		title = domain.FallbackTitle(question)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	defer task.finish(title)

	gi := t.indexOfGroupLocked(task.GroupID)
	if gi < 0 {
		t.logger.Debug("Group deleted before title arrived", "group", task.GroupID)
		return
	}
	t.groups[gi].Title = title
	t.commitLocked(commitCtx)
}

// Simplify asks the assistant for a simpler version of an item and inserts
// it right after the item, one level deeper. Indexes are positions in the
// current view. The call blocks until the assistant answers.
func (t *Timeline) Simplify(ctx context.Context, groupIndex, itemIndex int) error {
	t.mu.Lock()
	g, it, err := t.lookupLocked(groupIndex, itemIndex)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	if it.Simplifying {
		t.mu.Unlock()
		return domain.ErrSimplifyInFlight
	}
	if it.Understood {
		t.mu.Unlock()
		return domain.ErrItemUnderstood
	}

	it.Simplifying = true
	groupID, itemID, prompt := g.ID, it.ID, it.Description
	t.renderLocked(ctx)
	t.mu.Unlock()

	simplified, callErr := t.assistant.Simplify(ctx, prompt)
	simplified = strings.TrimSpace(simplified)

	t.mu.Lock()
	defer t.mu.Unlock()

	gi := t.indexOfGroupLocked(groupID)
	if gi < 0 {
		t.logger.Debug("Group deleted before simplification arrived", "group", groupID)
		return nil
	}
	g = &t.groups[gi]
	ii := g.IndexOfItem(itemID)
	if ii < 0 {
		t.logger.Debug("Item pruned before simplification arrived", "group", groupID, "item", itemID)
		return nil
	}

	if callErr == nil && simplified != "" {
		g.Items = domain.TruncateDeeper(g.Items, ii)
		target := g.Items[ii]
		child := domain.Item{
			ID:          domain.NextItemID(g.Items),
			Description: simplified,
			Level:       target.Level + 1,
			IsNew:       true,
		}
		g.Items = append(g.Items[:ii+1], append([]domain.Item{child}, g.Items[ii+1:]...)...)
		g.Items[ii].Simplified = true
		g.Expanded = true
		g.Understood = g.AllUnderstood()
	}
	g.Items[ii].Simplifying = false
	t.commitLocked(ctx)

	if callErr != nil {
		t.logger.Error("Error simplifying question", "group", groupID, "item", itemID, "error", callErr)
		return fmt.Errorf("failed to simplify question: %w", callErr)
	}
	return nil
}

// Regenerate discards the deeper chain after an item so it can be simplified again.
func (t *Timeline) Regenerate(ctx context.Context, groupIndex, itemIndex int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	g, _, err := t.lookupLocked(groupIndex, itemIndex)
	if err != nil {
		return err
	}
	g.Items = domain.TruncateDeeper(g.Items, itemIndex)
	g.Items[itemIndex].Simplified = false
	g.Understood = g.AllUnderstood()
	t.commitLocked(ctx)
	return nil
}

// ToggleUnderstood flips the understood flag of an item.
func (t *Timeline) ToggleUnderstood(ctx context.Context, groupIndex, itemIndex int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	g, it, err := t.lookupLocked(groupIndex, itemIndex)
	if err != nil {
		return err
	}
	it.Understood = !it.Understood
	if it.Understood {
		it.Simplifying = false
	}
	g.Understood = g.AllUnderstood()
	t.commitLocked(ctx)
	return nil
}

// ToggleExpanded flips the expanded view flag of a group. Nothing is persisted.
func (t *Timeline) ToggleExpanded(ctx context.Context, groupIndex int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if groupIndex < 0 || groupIndex >= len(t.groups) {
		return domain.ErrGroupNotFound
	}
	t.groups[groupIndex].Expanded = !t.groups[groupIndex].Expanded
	t.renderLocked(ctx)
	return nil
}

// DeleteGroup removes a group after the Confirmer agrees.
// It reports whether the group was removed.
func (t *Timeline) DeleteGroup(ctx context.Context, groupID int) (bool, error) {
	t.mu.Lock()
	exists := t.indexOfGroupLocked(groupID) >= 0
	t.mu.Unlock()
	if !exists {
		return false, domain.ErrGroupNotFound
	}

	ok, err := t.confirmer.Confirm(ctx, DeletePrompt)
	if err != nil {
		return false, fmt.Errorf("delete confirmation failed: %w", err)
	}
	if !ok {
		return false, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	gi := t.indexOfGroupLocked(groupID)
	if gi < 0 {
		return false, domain.ErrGroupNotFound
	}
	t.groups = append(t.groups[:gi], t.groups[gi+1:]...)
	t.commitLocked(ctx)
	return true, nil
}

// ToggleDeleteMode flips the delete-mode view flag and returns the new value.
// Leaving delete mode checkpoints the timeline.
func (t *Timeline) ToggleDeleteMode(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.deleteMode = !t.deleteMode
	t.renderLocked(ctx)
	if !t.deleteMode {
		if err := t.persistLocked(ctx); err != nil {
			return false, err
		}
	}
	return t.deleteMode, nil
}

// Wait blocks until every background title request has been applied.
func (t *Timeline) Wait() {
	t.pending.Wait()
}

func (t *Timeline) allocGroupIDLocked() int {
	id := domain.NextGroupID(t.groups)
	if id <= t.lastGroupID {
		id = t.lastGroupID + 1
	}
	t.lastGroupID = id
	return id
}

func (t *Timeline) indexOfGroupLocked(id int) int {
	for i := range t.groups {
		if t.groups[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Timeline) lookupLocked(groupIndex, itemIndex int) (*domain.Group, *domain.Item, error) {
	if groupIndex < 0 || groupIndex >= len(t.groups) {
		return nil, nil, domain.ErrGroupNotFound
	}
	g := &t.groups[groupIndex]
	if itemIndex < 0 || itemIndex >= len(g.Items) {
		return nil, nil, domain.ErrItemNotFound
	}
	return g, &g.Items[itemIndex], nil
}

func (t *Timeline) viewLocked() domain.View {
	groups := make([]domain.Group, len(t.groups))
	for i, g := range t.groups {
		groups[i] = g.Clone()
	}
	return domain.View{Groups: groups, DeleteMode: t.deleteMode}
}

// commitLocked is the persist-and-render cycle run after every mutation.
// Failures are logged; the mutation stands.
func (t *Timeline) commitLocked(ctx context.Context) {
	_ = t.persistLocked(ctx)
	t.renderLocked(ctx)
}

func (t *Timeline) persistLocked(ctx context.Context) error {
	if err := t.store.Save(ctx, t.key, domain.Trim(t.groups)); err != nil {
		t.logger.Error("Failed to persist timeline", "key", t.key, "error", err)
		return fmt.Errorf("failed to persist timeline: %w", err)
	}
	return nil
}

func (t *Timeline) renderLocked(ctx context.Context) {
	if err := t.renderer.Render(ctx, t.viewLocked()); err != nil {
		t.logger.Warn("Render failed", "error", err)
	}
	for gi := range t.groups {
		for ii := range t.groups[gi].Items {
			t.groups[gi].Items[ii].IsNew = false
		}
	}
}
