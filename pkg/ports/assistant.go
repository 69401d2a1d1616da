package ports

import (
	"context"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Assistant produces titles and simplified restatements for the timeline.
type Assistant interface {
	// Simplify returns a simpler restatement of prompt.
	Simplify(ctx context.Context, prompt string) (string, error)

	// GenerateTitle returns a short title for prompt.
	GenerateTitle(ctx context.Context, prompt string) (string, error)
}

// Oracle is the external text-completion backend.
type Oracle interface {
	// Complete sends one completion request and returns the generated text.
	Complete(ctx context.Context, req domain.Completion) (string, error)
}
