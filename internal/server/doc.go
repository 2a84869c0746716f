// Package server provides HTTP routing and middleware for the HTTP surfaces moviex serves:
// the metrics endpoint and the in-memory catalog backend used by tests.
//
// # Router
//
// The [Router] interface defines HTTP routing with middleware support. [BasicRouter] uses
// [http.ServeMux] method patterns, so "GET /api/movies/{id}" style wildcards work and a wrong
// method answers 405.
//
// [Middleware] wraps handlers in reverse order (last added executes first).
//
// # Handler Interface
//
// Custom handlers implement [Handler], which adds the patterns they serve to [http.Handler]
// so a handler can keep its route definitions next to its implementation. [HealthHandler] is one.
package server
