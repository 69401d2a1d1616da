package relay

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
)

// Service forwards prompts to an Oracle.
type Service struct {
	oracle        ports.Oracle
	metrics       *Metrics
	logger        *slog.Logger
	maxPromptSize int
	temperature   float64
	maxTokens     int
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records every oracle call on m.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger used for oracle failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMaxPromptSize overrides DefaultMaxPromptSize.
func WithMaxPromptSize(n int) Option {
	return func(s *Service) {
		s.maxPromptSize = n
	}
}

// WithSampling overrides the temperature and token budget sent to the oracle.
func WithSampling(temperature float64, maxTokens int) Option {
	return func(s *Service) {
		s.temperature = temperature
		s.maxTokens = maxTokens
	}
}

// New creates a relay Service.
func New(oracle ports.Oracle, opts ...Option) *Service {
	s := &Service{
		oracle:        oracle,
		logger:        slog.Default(),
		maxPromptSize: DefaultMaxPromptSize,
		temperature:   DefaultTemperature,
		maxTokens:     DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simplify returns the oracle's simpler restatement of prompt.
// Failures are returned as *Error; there is no fallback text.
func (s *Service) Simplify(ctx context.Context, prompt string) (string, error) {
	clean, err := SanitizePrompt(prompt, s.maxPromptSize)
	if err != nil {
		return "", &Error{
			Status:  http.StatusBadRequest,
			Message: "Invalid prompt",
			Details: err.Error(),
			Err:     err,
		}
	}

	start := time.Now()
	text, err := s.oracle.Complete(ctx, domain.Completion{
		System:      SimplifyInstruction,
		Prompt:      clean,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	s.metrics.observe(OpSimplify, start, err)
	if err != nil {
		s.logger.Error("Error simplifying question", "error", err)
		return "", &Error{
			Status:  http.StatusInternalServerError,
			Message: "Failed to simplify question",
			Details: err.Error(),
			Err:     err,
		}
	}
	return text, nil
}

// GenerateTitle returns a 2-3 word title for prompt.
// On any failure it returns domain.FallbackTitle(prompt).
func (s *Service) GenerateTitle(ctx context.Context, prompt string) string {
	clean, err := SanitizePrompt(prompt, s.maxPromptSize)
	if err != nil {
		s.logger.Warn("Rejected title prompt", "error", err)
		return domain.FallbackTitle(prompt)
	}

	start := time.Now()
	title, err := s.oracle.Complete(ctx, domain.Completion{
		Prompt:      TitlePrompt(clean),
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	s.metrics.observe(OpTitle, start, err)
	if err != nil {
		s.logger.Warn("Error generating title", "error", err)
		return domain.FallbackTitle(clean)
	}
	return strings.TrimSpace(title)
}
