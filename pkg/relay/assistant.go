package relay

import (
	"context"

	"github.com/aretw0/stepwise/pkg/ports"
)

type localAssistant struct {
	svc *Service
}

// NewLocalAssistant exposes the Service as a ports.Assistant,
// letting the timeline talk to the relay in-process.
func NewLocalAssistant(svc *Service) ports.Assistant {
	return &localAssistant{svc: svc}
}

func (a *localAssistant) Simplify(ctx context.Context, prompt string) (string, error) {
	return a.svc.Simplify(ctx, prompt)
}

func (a *localAssistant) GenerateTitle(ctx context.Context, prompt string) (string, error) {
	return a.svc.GenerateTitle(ctx, prompt), nil
}
