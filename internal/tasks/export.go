package tasks

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/time/rate"

	"github.com/desertthunder/moviex/internal/formatter"
	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/query"
)

// ExportOpts contains configuration for a catalog export.
type ExportOpts struct {
	Format     formatter.Format // Output format (default: text)
	Output     string           // File path (default: movies_export_{epoch}.{ext})
	Title      string           // Markdown heading (default: "Movie catalog")
	NumWorkers int              // Concurrent page fetches (default: 4, max 10)
	RateLimit  float64          // Page requests per second (default: 5)
}

// PageError records a page that could not be fetched.
type PageError struct {
	Page int
	Err  error
}

// ExportResult summarizes an export.
type ExportResult struct {
	TotalPages  int
	Movies      []models.Movie
	FailedPages []PageError
	OutputPath  string
	// Local is true when the backend ignored paging and the whole catalog arrived at once.
	Local bool
}

type pageResult struct {
	page   int
	movies []models.Movie
	err    error
}

// ExportCatalog fetches every page of view and writes the records to a single file.
//
// The first page decides the page count; the rest are fetched by a rate limited worker pool.
// Pages that fail are reported in [ExportResult.FailedPages] and skipped. Records that move
// between pages while the export runs are kept once, in page order.
func (e *Engine) ExportCatalog(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	view query.ViewState,
	opts ExportOpts,
) (*ExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.Text
	}
	if opts.Title == "" {
		opts.Title = "Movie catalog"
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	view = view.Normalize()
	view.Pagination.PageIndex = 0
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	e.sendProgress(prog, firstPageUpdate())
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}
	first, err := e.catalog.ListMovies(ctx, query.Encode(view))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}

	result := &ExportResult{}
	if !first.Paged {
		result.Local = true
		result.TotalPages = 1
		all := view
		all.Pagination.PageSize = max(len(first.Content), 1)
		result.Movies, _ = query.ApplyLocal(first.Content, all)
		e.sendProgress(prog, pageCountUpdate(1, true))
	} else {
		result.TotalPages = first.TotalPages
		e.sendProgress(prog, pageCountUpdate(first.TotalPages, false))

		pages, failed, err := e.fetchPages(ctx, prog, view, first, limiter, opts.NumWorkers)
		if err != nil {
			return nil, err
		}
		result.FailedPages = failed
		result.Movies = merge(pages)
	}

	if result.Movies == nil {
		result.Movies = []models.Movie{}
	}

	e.sendProgress(prog, writeExportUpdate(opts.Format, len(result.Movies)))
	path, err := formatter.WriteMovies(result.Movies, opts.Format, opts.Title, opts.Output)
	if err != nil {
		return result, fmt.Errorf("failed to write export: %w", err)
	}
	result.OutputPath = path

	e.logger.Info("catalog exported", "path", path, "records", len(result.Movies), "pages", result.TotalPages, "failed", len(result.FailedPages))
	return result, nil
}

// fetchPages fetches pages 1..total-1 of view. The returned slice is indexed by page.
func (e *Engine) fetchPages(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	view query.ViewState,
	first *models.Page,
	limiter *rate.Limiter,
	workers int,
) ([][]models.Movie, []PageError, error) {
	total := max(first.TotalPages, 1)
	pages := make([][]models.Movie, total)
	pages[0] = first.Content

	jobs := make(chan int)
	results := make(chan pageResult, total)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go e.pageWorker(ctx, &wg, view, jobs, results)
	}

	go func() {
		defer close(jobs)
		for page := 1; page < total; page++ {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case jobs <- page:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var failed []PageError
	completed := 1
	e.sendProgress(prog, pageFetchedUpdate(completed, total, 0, len(first.Content)))
	for res := range results {
		completed++
		if res.err != nil {
			failed = append(failed, PageError{Page: res.page, Err: res.err})
			e.sendProgress(prog, pageFailedUpdate(completed, total, res.page, res.err))
			e.logger.Warn("page fetch failed", "page", res.page, "error", res.err)
			continue
		}
		pages[res.page] = res.movies
		e.sendProgress(prog, pageFetchedUpdate(completed, total, res.page, len(res.movies)))
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	slices.SortFunc(failed, func(a, b PageError) int { return cmp.Compare(a.Page, b.Page) })
	return pages, failed, nil
}

func (e *Engine) pageWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	view query.ViewState,
	jobs <-chan int,
	results chan<- pageResult,
) {
	defer wg.Done()

	for page := range jobs {
		v := view.Clone()
		v.Pagination.PageIndex = page

		res, err := e.catalog.ListMovies(ctx, query.Encode(v))
		if err != nil {
			results <- pageResult{page: page, err: err}
			continue
		}
		results <- pageResult{page: page, movies: res.Content}
	}
}

func merge(pages [][]models.Movie) []models.Movie {
	seen := make(map[int64]bool)
	var out []models.Movie
	for _, page := range pages {
		for _, m := range page {
			if m.ID != nil {
				if seen[*m.ID] {
					continue
				}
				seen[*m.ID] = true
			}
			out = append(out, m)
		}
	}
	return out
}

