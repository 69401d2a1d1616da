package timeline

import (
	"context"
	"log/slog"

	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
)

// DefaultKey is the snapshot key used when none is configured.
const DefaultKey = "savedQuestions"

// DeletePrompt is the question asked before a group is removed.
const DeletePrompt = "Are you sure you want to delete this question from history?"

// Option configures a Timeline.
type Option func(*Timeline)

// WithStore sets the snapshot store. Defaults to an in-memory store.
func WithStore(store ports.SnapshotStore) Option {
	return func(t *Timeline) {
		t.store = store
	}
}

// WithRenderer sets the renderer called after every mutation.
func WithRenderer(r ports.Renderer) Option {
	return func(t *Timeline) {
		t.renderer = r
	}
}

// WithConfirmer sets the prompt used before deletes. Defaults to always yes.
func WithConfirmer(c ports.Confirmer) Option {
	return func(t *Timeline) {
		t.confirmer = c
	}
}

// WithKey sets the snapshot key.
func WithKey(key string) Option {
	return func(t *Timeline) {
		if key != "" {
			t.key = key
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Timeline) {
		t.logger = logger
	}
}

var (
	nopRenderer = ports.RenderFunc(func(context.Context, domain.View) error { return nil })
	yesConfirm  = ports.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
)

func defaults() []Option {
	return []Option{
		WithStore(memory.NewStore()),
		WithRenderer(nopRenderer),
		WithConfirmer(yesConfirm),
		WithKey(DefaultKey),
		WithLogger(slog.Default()),
	}
}
