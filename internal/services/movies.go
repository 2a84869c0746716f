package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/query"
	"github.com/desertthunder/moviex/internal/shared"
)

const moviesPath = "/api/movies"

// ListMovies fetches one page of the catalog for q.
//
// A backend that ignores paging and returns a bare array yields a [models.Page] with Paged false.
func (c *CatalogClient) ListMovies(ctx context.Context, q query.Query) (*models.Page, error) {
	var page models.Page
	if err := c.doRequest(ctx, http.MethodGet, moviesPath+"?"+q.String(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetMovie fetches a single record. A missing record yields an error matching [shared.ErrNotFound].
func (c *CatalogClient) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	var m models.Movie
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("%s/%d", moviesPath, id), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMovie posts a record without id.
func (c *CatalogClient) CreateMovie(ctx context.Context, m models.Movie) (*models.Movie, error) {
	m.ID = nil
	var created models.Movie
	if err := c.doRequest(ctx, http.MethodPost, moviesPath, m, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateMovie replaces the record with the given id.
func (c *CatalogClient) UpdateMovie(ctx context.Context, id int64, m models.Movie) (*models.Movie, error) {
	m.ID = &id
	var updated models.Movie
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("%s/%d", moviesPath, id), m, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SaveMovie creates m when it has no id and updates it otherwise.
func (c *CatalogClient) SaveMovie(ctx context.Context, m models.Movie) (*models.Movie, error) {
	if m.ID == nil {
		return c.CreateMovie(ctx, m)
	}
	return c.UpdateMovie(ctx, *m.ID, m)
}

func (c *CatalogClient) DeleteMovie(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: movie id must be positive", shared.ErrInvalidArgument)
	}
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", moviesPath, id), nil, nil)
}
