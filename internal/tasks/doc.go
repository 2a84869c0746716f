// Package tasks runs long catalog jobs with real-time progress reporting.
//
// # Catalog Export
//
// [Engine.ExportCatalog] writes every record of a view to one file:
//
//  1. Fetches the first page to learn the page count
//  2. Fetches the remaining pages with a rate limited worker pool
//  3. Merges pages in order, keeping each record once
//  4. Writes JSON, CSV, Markdown or text through the formatter package
//
// A backend that ignores paging answers the first request with the whole catalog; the view's
// filters and sort are then applied locally and no further pages are fetched.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
