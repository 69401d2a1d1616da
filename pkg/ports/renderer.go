package ports

import (
	"context"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Renderer draws the whole timeline from a view.
// It is called while the timeline is locked and must not call back into it.
type Renderer interface {
	Render(ctx context.Context, view domain.View) error
}

// RenderFunc adapts a function to the Renderer interface.
type RenderFunc func(ctx context.Context, view domain.View) error

func (f RenderFunc) Render(ctx context.Context, view domain.View) error {
	return f(ctx, view)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}
