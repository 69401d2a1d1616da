package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/stepwise/internal/config"
	"github.com/aretw0/stepwise/internal/presentation/tui"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/timeline"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Config   config.Config
	Version  string
	Plain    bool
	NoBanner bool

	// Assistant overrides the one built from Config.
	Assistant ports.Assistant

	In     io.Reader
	Out    io.Writer
	Logger *slog.Logger
}

// Run starts the interactive timeline client and blocks until the user quits.
func Run(ctx context.Context, opts RunOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		l, closeLog, err := CreateLogger(opts.Config.LogLevel, false, opts.Config.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()
		logger = l
	}

	store, closeStore, err := OpenStore(opts.Config.Store)
	if err != nil {
		return fmt.Errorf("error opening store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Failed to close store", "error", err)
		}
	}()

	assistant := opts.Assistant
	if assistant == nil {
		assistant = NewAssistant(opts.Config, logger)
	}

	out := NewSyncWriter(opts.Out)
	var rendererOpts []tui.RendererOption
	if opts.Plain {
		rendererOpts = append(rendererOpts, tui.WithPlain())
	}
	renderer, err := tui.NewRenderer(out, rendererOpts...)
	if err != nil {
		return err
	}

	repl := NewREPL(opts.In, out)
	tl := timeline.New(assistant,
		timeline.WithStore(store),
		timeline.WithRenderer(renderer),
		timeline.WithConfirmer(repl),
		timeline.WithKey(opts.Config.Store.Key),
		timeline.WithLogger(logger),
	)

	if !opts.NoBanner {
		tui.PrintBanner(out, opts.Version)
		printSystemMessage(out, "Type 'help' for commands.")
	}

	if err := tl.Load(ctx); err != nil {
		return err
	}
	return repl.Run(ctx, tl)
}
