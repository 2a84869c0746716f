package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/formatter"
	"github.com/desertthunder/moviex/internal/services"
	"github.com/desertthunder/moviex/internal/shared"
)

// ImportFile uploads a JSON file of movies.
func (r *Runner) ImportFile(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: Please select a JSON file to import.", shared.ErrMissingArgument)
	}

	msg, err := r.gateway(ctx).Import(ctx, path, services.ImportOptions{SimulateError: cmd.Bool("simulate-error")})
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Import completed."
	}
	r.writePlain("✓ %s\n", msg)
	return nil
}

// ImportHistory prints past imports, newest first.
func (r *Runner) ImportHistory(ctx context.Context, cmd *cli.Command) error {
	entries, err := r.gateway(ctx).History(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}
	_, err = r.output.Write(formatter.HistoryToText(entries))
	return err
}

// ImportDownload saves the file stored for an import run.
func (r *Runner) ImportDownload(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: import id must be an integer, got %q", shared.ErrInvalidArgument, raw)
	}

	gw := r.gateway(ctx)
	entries, err := gw.History(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.ID != id {
			continue
		}
		path, err := gw.Download(ctx, entry, cmd.String("dir"))
		if err != nil {
			return err
		}
		r.writePlain("✓ Saved %s\n", path)
		if cmd.Bool("open") {
			return shared.OpenExternal(path)
		}
		return nil
	}
	return fmt.Errorf("%w: import %d", shared.ErrNotFound, id)
}
