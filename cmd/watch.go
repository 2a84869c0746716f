package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/catalog"
	"github.com/desertthunder/moviex/internal/feed"
	"github.com/desertthunder/moviex/internal/formatter"
	"github.com/desertthunder/moviex/internal/metrics"
	"github.com/desertthunder/moviex/internal/query"
	"github.com/desertthunder/moviex/internal/shared"
)

// newListener builds the change feed listener from the [feed] config section.
func (r *Runner) newListener(ctx context.Context) *feed.Listener {
	return feed.NewListener(r.config.Backend.BaseURL, feed.Options{
		Client:         r.newHTTPClient(ctx, 0),
		Path:           r.config.Feed.SubscribePath,
		ReconnectDelay: r.config.Feed.Delay(),
		ReconnectBurst: r.config.Feed.ReconnectBurst,
		Logger:         shared.WithLogger(r.logger, "component", "feed"),
		Observer:       metrics.Recorder{},
	})
}

// newStore builds a catalog store over the backend client, reporting refreshes to metrics.
func (r *Runner) newStore(ctx context.Context, view query.ViewState) *catalog.Store {
	return catalog.New(r.client(ctx), view, catalog.Options{
		Logger:   shared.WithLogger(r.logger, "component", "store"),
		Observer: metrics.Recorder{},
	})
}

// Watch follows the change feed until interrupted, refreshing the selected page on every change.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	view, err := r.viewFromFlags(cmd)
	if err != nil {
		return err
	}
	quiet := cmd.Bool("quiet")

	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	addr := r.config.Metrics.Addr
	if cmd.IsSet("metrics-addr") {
		addr = cmd.String("metrics-addr")
	}
	if addr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metrics.Serve(ctx, addr, r.logger); err != nil {
				r.logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	store := r.newStore(ctx, view)
	updates := store.Updates()
	if err := store.Refresh(ctx); err != nil {
		r.logger.Warn("initial refresh failed", "error", err)
	}
	var shown uint64
	if !quiet {
		shown = r.printPage(store.Snapshot())
	}

	listener := r.newListener(ctx)
	states := listener.WatchState()
	runErr := make(chan error, 1)
	go func() { runErr <- listener.Run(ctx) }()

	// Events are printed before they reach the store.
	signals := make(chan feed.Signal)
	wg.Add(1)
	go func() {
		defer wg.Done()
		catalog.Consume(ctx, store, signals)
	}()

	r.writePlain("Watching %s (Ctrl+C to stop)\n", r.config.Backend.BaseURL)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-runErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("change feed stopped: %w", err)
			}
			return nil
		case s := <-states:
			r.writePlain("· feed %s\n", s)
		case sig := <-listener.Signals():
			r.writePlain("⚡ %s at %s\n", sig.Event, sig.At.Format("15:04:05"))
			select {
			case signals <- sig:
			case <-ctx.Done():
				return nil
			}
		case snap := <-updates:
			if quiet || snap.Loading || snap.Generation == shown {
				continue
			}
			if snap.Err != nil {
				r.writePlain("✗ refresh failed: %v\n", snap.Err)
				continue
			}
			shown = r.printPage(snap)
		}
	}
}

// printPage writes the snapshot's page as text and returns its generation.
func (r *Runner) printPage(snap catalog.Snapshot) uint64 {
	r.writePlainHeader(snap.PageLabel())
	if out, err := formatter.MoviesToText(snap.Movies); err == nil {
		r.output.Write(out)
	}
	return snap.Generation
}
