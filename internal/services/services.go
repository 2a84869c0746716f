// package services defines the Catalog interface for the movie backend and its HTTP implementation
package services

import (
	"context"
	"io"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/query"
)

// Catalog is the full set of backend calls moviex makes.
type Catalog interface {
	// ListMovies fetches the page addressed by q.
	ListMovies(ctx context.Context, q query.Query) (*models.Page, error)

	GetMovie(ctx context.Context, id int64) (*models.Movie, error)
	CreateMovie(ctx context.Context, m models.Movie) (*models.Movie, error)
	UpdateMovie(ctx context.Context, id int64, m models.Movie) (*models.Movie, error)

	// SaveMovie creates or updates depending on whether m carries an id.
	SaveMovie(ctx context.Context, m models.Movie) (*models.Movie, error)
	DeleteMovie(ctx context.Context, id int64) error

	DeleteByGenre(ctx context.Context, genre models.Genre) error
	GoldenPalmSum(ctx context.Context) (int64, error)
	FindByTagline(ctx context.Context, substring string) ([]models.Movie, error)
	ScreenwritersWithoutOscars(ctx context.Context) ([]models.Person, error)
	RedistributeOscars(ctx context.Context, from, to models.Genre) error

	ImportFile(ctx context.Context, filename string, r io.Reader, opts ImportOptions) (string, error)
	ImportHistory(ctx context.Context) ([]models.ImportHistoryEntry, error)
	DownloadImportFile(ctx context.Context, objectName string, w io.Writer) (int64, string, error)
}

var _ Catalog = (*CatalogClient)(nil)
