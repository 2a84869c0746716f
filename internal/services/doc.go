// Package services implements the movie catalog backend client.
//
// # Catalog Interface
//
// [Catalog] lists every backend call used by moviex. [CatalogClient] implements it over HTTP
// against the endpoints under /api/movies, /api/operations and /api/import.
//
// # Authentication
//
// The backend needs no credentials by default. When a token is configured, [NewHTTPClient]
// wraps the transport with [oauth2.StaticTokenSource] so every request, including the change
// feed subscription, carries an Authorization: Bearer header.
//
// # Error Handling
//
// Failed calls return typed errors:
//   - [*ValidationError] : HTTP 400 with a validation_errors map of field path to message
//   - [*APIError] : any other non-2xx answer with the backend's "error" message
//
// Both unwrap to sentinels from the shared package:
//   - [shared.ErrValidation] : the record was rejected
//   - [shared.ErrNotFound] : HTTP 404, e.g. "Movie with id 7 not found"
//   - [shared.ErrServiceUnavailable] : HTTP 5xx or a transport failure (network, timeout)
//   - [shared.ErrAPIRequest] : any other failure, including undecodable bodies
//
// # Paging
//
// ListMovies sends the canonical query produced by the query package and accepts either a
// {content, totalPages} page or a bare array; see [models.Page].
package services
