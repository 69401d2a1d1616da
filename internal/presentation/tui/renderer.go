package tui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewMarkdownRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background.
func NewMarkdownRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// Renderer redraws the timeline on a writer after every mutation.
type Renderer struct {
	mu       sync.Mutex
	out      io.Writer
	markdown func(string) (string, error)
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithPlain writes raw markdown instead of styled output.
func WithPlain() RendererOption {
	return func(r *Renderer) {
		r.markdown = nil
	}
}

// NewRenderer creates a styled Renderer writing to out.
func NewRenderer(out io.Writer, opts ...RendererOption) (*Renderer, error) {
	md, err := NewMarkdownRenderer()
	if err != nil {
		return nil, err
	}
	r := &Renderer{out: out, markdown: md}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Render implements ports.Renderer.
func (r *Renderer) Render(ctx context.Context, v domain.View) error {
	text := Markdown(v)
	if r.markdown != nil {
		styled, err := r.markdown(text)
		if err != nil {
			return err
		}
		text = styled
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := io.WriteString(r.out, text)
	return err
}
