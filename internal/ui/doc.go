// Package ui implements an interactive terminal catalog browser using bubbletea's Elm architecture.
//
// The TUI shows one page of the catalog in a table and keeps it current:
//  1. [ListView] : the page, with paging, column sorting and filters
//  2. [InputView] : name filter or tagline search input
//  3. [ConfirmView] : confirm deleting the selected movie
//  4. [DetailView] : every field of the selected movie
//  5. [ResultView] : the outcome of an operation
//
// The (view) [Model] never fetches pages itself. Key presses call the catalog store, and the
// store's snapshots arrive as messages, so pages pushed by change feed refreshes are shown
// the same way as pages the user asked for.
//
// Keyboard navigation uses vim-style bindings (h/j/k/l, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
