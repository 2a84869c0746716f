package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/formatter"
	"github.com/desertthunder/moviex/internal/shared"
	"github.com/desertthunder/moviex/internal/tasks"
)

// Export walks every page of the selected view and writes the records to a file.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	view, err := r.viewFromFlags(cmd)
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchFirstPage:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FetchPages:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteExport:
				r.writePlain("💾 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine(ctx).ExportCatalog(ctx, progressCh, view, tasks.ExportOpts{
		Format:     format,
		Output:     cmd.String("output"),
		Title:      cmd.String("title"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlainHeader("Export complete")
	r.writePlain("Movies:  %d\n", len(result.Movies))
	r.writePlain("Pages:   %d\n", result.TotalPages)
	r.writePlain("File:    %s\n", result.OutputPath)
	if len(result.FailedPages) > 0 {
		r.writePlainln("⚠ %d page(s) could not be fetched:", len(result.FailedPages))
		for _, pe := range result.FailedPages {
			r.writePlain("  page %d: %v\n", pe.Page+1, pe.Err)
		}
	}

	if cmd.Bool("open") {
		if err := shared.OpenExternal(result.OutputPath); err != nil {
			return fmt.Errorf("export written but could not be opened: %w", err)
		}
	}
	return nil
}
