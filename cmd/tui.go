package main

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/catalog"
	"github.com/desertthunder/moviex/internal/feed"
	"github.com/desertthunder/moviex/internal/shared"
	"github.com/desertthunder/moviex/internal/ui"
)

// TUI launches the interactive catalog browser, kept current by the change feed.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	view, err := r.viewFromFlags(cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, f, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer f.Close()
	r.SetLogger(fileLogger)

	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := r.newStore(ctx, view)

	var states <-chan feed.State
	if !cmd.Bool("no-feed") {
		listener := r.newListener(ctx)
		states = listener.WatchState()
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := listener.Run(ctx); err != nil {
				r.logger.Error("change feed stopped", "error", err)
			}
		}()
		go func() {
			defer wg.Done()
			catalog.Consume(ctx, store, listener.Signals())
		}()
	}

	model := ui.NewModel(ctx, ui.Options{
		Store:      store,
		Catalog:    r.client(ctx),
		FeedStates: states,
		Logger:     shared.WithLogger(r.logger, "component", "ui"),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
