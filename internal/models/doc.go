// Package models defines the catalog entities exchanged with the movie backend and the local entities persisted by moviex.
//
// The package contains two categories of types:
//
// 1. Wire records: the JSON shapes served by the REST API
//   - [Movie] : a catalog record with nested [Coordinates] and [Person] values
//   - [Person] : director, screenwriter or operator, with an optional [Location]
//   - [Page] : one page of a listing with the server's page count
//   - [ImportHistoryEntry] : the outcome of one file import
//
// 2. Persistent entities: rows kept in the local SQLite database
//   - [Draft] : an editable record the backend rejected, kept with its field errors
//   - [SavedView] : a named list preset (page size, sort and filters)
//
// Persistent entities implement the [Model] interface and are stored through a [Repository].
// Enumerations ([Genre], [MpaaRating], [Color]) carry the backend's spelling and a Valid check.
package models
