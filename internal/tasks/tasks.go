// package tasks runs long catalog jobs that report progress over a channel.
//
// Jobs are methods of [Engine]. Progress updates never block the job.
package tasks

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/query"
	"github.com/desertthunder/moviex/internal/shared"
)

// Lister fetches one page of the catalog.
type Lister interface {
	ListMovies(ctx context.Context, q query.Query) (*models.Page, error)
}

// Engine runs catalog jobs against a backend.
type Engine struct {
	catalog Lister
	logger  *log.Logger
}

// NewEngine creates an Engine. A nil logger discards output.
func NewEngine(catalog Lister, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Engine{catalog: catalog, logger: logger.With("component", "tasks")}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
