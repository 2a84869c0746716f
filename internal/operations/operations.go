// Package operations wraps the backend's bulk and aggregate calls.
//
// Every call is one request with inputs checked at the boundary. The gateway holds no state
// and never touches the displayed list: the change feed refreshes it.
package operations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/services"
	"github.com/desertthunder/moviex/internal/shared"
)

// Gateway issues bulk operations against a [services.Catalog].
type Gateway struct {
	catalog services.Catalog
	logger  *log.Logger
}

// New creates a gateway. A nil logger discards output.
func New(catalog services.Catalog, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Gateway{catalog: catalog, logger: logger.With("component", "operations")}
}

// ParseGenre accepts the backend spelling or a label such as "science fiction".
func ParseGenre(s string) (models.Genre, error) {
	g, ok := models.ParseGenre(s)
	if !ok {
		return "", fmt.Errorf("%w: unknown genre %q", shared.ErrInvalidArgument, s)
	}
	return g, nil
}

// DeleteByGenre removes every movie of the named genre and returns the parsed genre.
func (g *Gateway) DeleteByGenre(ctx context.Context, genre string) (models.Genre, error) {
	parsed, err := ParseGenre(genre)
	if err != nil {
		return "", err
	}
	if err := g.catalog.DeleteByGenre(ctx, parsed); err != nil {
		return parsed, fmt.Errorf("delete %s movies: %w", parsed, err)
	}
	g.logger.Info("deleted movies by genre", "genre", parsed)
	return parsed, nil
}

// GoldenPalmSum returns the catalog's total golden palm count.
func (g *Gateway) GoldenPalmSum(ctx context.Context) (int64, error) {
	sum, err := g.catalog.GoldenPalmSum(ctx)
	if err != nil {
		return 0, fmt.Errorf("golden palm sum: %w", err)
	}
	return sum, nil
}

// FindByTagline searches taglines for substring, which must not be blank.
func (g *Gateway) FindByTagline(ctx context.Context, substring string) ([]models.Movie, error) {
	if strings.TrimSpace(substring) == "" {
		return nil, fmt.Errorf("%w: Please enter a tagline substring.", shared.ErrInvalidInput)
	}
	movies, err := g.catalog.FindByTagline(ctx, substring)
	if err != nil {
		return nil, fmt.Errorf("tagline search: %w", err)
	}
	return movies, nil
}

// ScreenwritersWithoutOscars lists screenwriters whose movies never won an oscar.
func (g *Gateway) ScreenwritersWithoutOscars(ctx context.Context) ([]models.Person, error) {
	people, err := g.catalog.ScreenwritersWithoutOscars(ctx)
	if err != nil {
		return nil, fmt.Errorf("screenwriters without oscars: %w", err)
	}
	return people, nil
}

// RedistributeOscars moves the oscars of one genre onto another.
//
// Both genres must be known. Equal genres are passed through and the backend decides.
func (g *Gateway) RedistributeOscars(ctx context.Context, from, to string) (models.Genre, models.Genre, error) {
	src, err := ParseGenre(from)
	if err != nil {
		return "", "", err
	}
	dst, err := ParseGenre(to)
	if err != nil {
		return "", "", err
	}
	if err := g.catalog.RedistributeOscars(ctx, src, dst); err != nil {
		return src, dst, fmt.Errorf("redistribute oscars: %w", err)
	}
	g.logger.Info("redistributed oscars", "from", src, "to", dst)
	return src, dst, nil
}

// Import uploads the JSON file at path and returns the backend's message.
func (g *Gateway) Import(ctx context.Context, path string, opts services.ImportOptions) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return "", fmt.Errorf("%w: Please select a JSON file to import.", shared.ErrInvalidInput)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%w: %s is empty", shared.ErrInvalidInput, path)
	}

	msg, err := g.catalog.ImportFile(ctx, filepath.Base(path), f, opts)
	if err != nil {
		return "", fmt.Errorf("import %s: %w", filepath.Base(path), err)
	}
	g.logger.Info("imported file", "file", filepath.Base(path), "bytes", info.Size())
	return msg, nil
}

// History returns the import runs, newest first.
func (g *Gateway) History(ctx context.Context) ([]models.ImportHistoryEntry, error) {
	entries, err := g.catalog.ImportHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("import history: %w", err)
	}
	services.SortHistory(entries)
	return entries, nil
}

// Download saves the stored upload of entry into dir and returns the file's path.
//
// The name suggested by the backend is used. The file only appears once it is complete.
func (g *Gateway) Download(ctx context.Context, entry models.ImportHistoryEntry, dir string) (string, error) {
	if !entry.Downloadable() {
		return "", fmt.Errorf("%w: import %d has no stored file", shared.ErrInvalidArgument, entry.ID)
	}
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, ".moviex-download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, name, err := g.catalog.DownloadImportFile(ctx, entry.ObjectName, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("download %s: %w", entry.ObjectName, err)
	}

	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		name = filepath.Base(entry.ObjectName)
	}
	target := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", target, err)
	}

	g.logger.Info("downloaded import file", "object", entry.ObjectName, "path", target, "bytes", n)
	return target, nil
}

// Names joins the names one per line, or returns "None" for an empty list.
func Names[T any](items []T, name func(T) string) string {
	if len(items) == 0 {
		return "None"
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = name(it)
	}
	return strings.Join(out, ",\n")
}
