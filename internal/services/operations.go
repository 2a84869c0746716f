package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/desertthunder/moviex/internal/models"
)

const operationsPath = "/api/operations"

// DeleteByGenre removes every movie of genre.
func (c *CatalogClient) DeleteByGenre(ctx context.Context, genre models.Genre) error {
	return c.doRequest(ctx, http.MethodDelete, operationsPath+"/genre/"+url.PathEscape(string(genre)), nil, nil)
}

// GoldenPalmSum returns the total golden palm count over the catalog.
func (c *CatalogClient) GoldenPalmSum(ctx context.Context) (int64, error) {
	var res struct {
		TotalGoldenPalms int64 `json:"totalGoldenPalms"`
	}
	if err := c.doRequest(ctx, http.MethodGet, operationsPath+"/golden-palm-sum", nil, &res); err != nil {
		return 0, err
	}
	return res.TotalGoldenPalms, nil
}

// FindByTagline returns the movies whose tagline contains substring.
func (c *CatalogClient) FindByTagline(ctx context.Context, substring string) ([]models.Movie, error) {
	q := url.Values{"contains": {substring}}
	movies := []models.Movie{}
	if err := c.doRequest(ctx, http.MethodGet, operationsPath+"/tagline?"+q.Encode(), nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// ScreenwritersWithoutOscars lists screenwriters none of whose movies won an oscar.
func (c *CatalogClient) ScreenwritersWithoutOscars(ctx context.Context) ([]models.Person, error) {
	people := []models.Person{}
	if err := c.doRequest(ctx, http.MethodGet, operationsPath+"/screenwriters-no-oscars", nil, &people); err != nil {
		return nil, err
	}
	return people, nil
}

// RedistributeOscars moves oscars from one genre to another. Equal genres are sent as is.
func (c *CatalogClient) RedistributeOscars(ctx context.Context, from, to models.Genre) error {
	q := url.Values{"from": {string(from)}, "to": {string(to)}}
	return c.doRequest(ctx, http.MethodPost, operationsPath+"/redistribute-oscars?"+q.Encode(), nil, nil)
}
