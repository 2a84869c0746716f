// Package catalog owns the view state of the movie list and keeps the displayed page in line with the backend.
//
// [Store] is the only writer of the view state. Every change goes through [Store.SetViewState],
// which clamps the page index and refreshes. Refreshes are tagged with a generation number and a
// response is applied only if no newer refresh was issued after it, so the last request wins
// regardless of arrival order. A failed refresh keeps the displayed page and records the error.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/query"
	"github.com/desertthunder/moviex/internal/shared"
)

// Lister fetches one page of the catalog.
type Lister interface {
	ListMovies(ctx context.Context, q query.Query) (*models.Page, error)
}

// Refresh outcomes reported to the [Observer].
const (
	OutcomeApplied = "applied"
	OutcomeStale   = "stale"
	OutcomeError   = "error"
)

// Observer is told how each fetch ended.
type Observer interface {
	RefreshDone(outcome string, elapsed time.Duration)
}

// Options configure a [Store].
type Options struct {
	Logger   *log.Logger
	Observer Observer
}

// Store holds the view state, the displayed page and the refresh bookkeeping.
type Store struct {
	lister   Lister
	logger   *log.Logger
	observer Observer

	mu         sync.Mutex
	view       query.ViewState
	movies     []models.Movie
	totalPages int
	known      bool
	local      bool
	generation uint64
	revision   uint64 // view changes; a response fetched for an older view is stale
	applied    uint64
	inflight   int
	err        error

	notifyMu sync.Mutex
	watchers []chan Snapshot
}

// New creates a store showing nothing yet. The initial page index is kept until the first
// response reveals the page count.
func New(lister Lister, initial query.ViewState, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	return &Store{
		lister:   lister,
		logger:   opts.Logger,
		observer: opts.Observer,
		view:     initial.Normalize(),
		movies:   []models.Movie{},
	}
}

// Snapshot is a consistent copy of the store's state.
type Snapshot struct {
	View       query.ViewState
	Movies     []models.Movie
	TotalPages int
	// Generation of the displayed page; zero before the first successful refresh.
	Generation uint64
	Loading    bool
	// Local is true when the backend ignored paging and the page was cut client side.
	Local bool
	// Err is the error of the latest refresh, cleared by the next successful one.
	Err error
}

// CanNext reports whether a following page exists.
func (s Snapshot) CanNext() bool {
	return s.View.Pagination.PageIndex < s.TotalPages-1
}

// CanPrev reports whether a preceding page exists.
func (s Snapshot) CanPrev() bool {
	return s.View.Pagination.PageIndex > 0
}

// PageLabel renders "Page X of Y" with Y at least 1.
func (s Snapshot) PageLabel() string {
	return fmt.Sprintf("Page %d of %d", s.View.Pagination.PageIndex+1, max(s.TotalPages, 1))
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		View:       s.view.Clone(),
		Movies:     append([]models.Movie(nil), s.movies...),
		TotalPages: s.totalPages,
		Generation: s.applied,
		Loading:    s.inflight > 0,
		Local:      s.local,
		Err:        s.err,
	}
}

// View returns a copy of the current view state.
func (s *Store) View() query.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Clone()
}

// Updates returns a channel that always holds the most recent snapshot after a change.
// Intermediate snapshots are dropped for slow readers.
func (s *Store) Updates() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	s.notifyMu.Lock()
	s.watchers = append(s.watchers, ch)
	s.notifyMu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if len(s.watchers) == 0 {
		return
	}

	snap := s.Snapshot()
	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (s *Store) observe(outcome string, start time.Time) {
	if s.observer != nil {
		s.observer.RefreshDone(outcome, time.Since(start))
	}
}

// Refresh fetches the page for the current view state.
//
// The response is applied only if no other refresh started in the meantime; a superseded
// response, successful or not, is dropped and Refresh returns nil. On failure the displayed
// page and page count are kept and the error is recorded and returned. If the new page count
// puts the page index out of range, the index is clamped and the clamped page is fetched.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	rev := s.revision
	view := s.view.Clone()
	s.inflight++
	s.mu.Unlock()
	s.notify()

	start := time.Now()
	page, err := s.lister.ListMovies(ctx, query.Encode(view))

	s.mu.Lock()
	s.inflight--
	if gen != s.generation || rev != s.revision {
		s.mu.Unlock()
		s.logger.Debug("dropping stale page", "generation", gen)
		s.observe(OutcomeStale, start)
		s.notify()
		return nil
	}

	if err != nil {
		s.err = err
		s.mu.Unlock()
		s.logger.Warn("refresh failed", "generation", gen, "error", err)
		s.observe(OutcomeError, start)
		s.notify()
		return err
	}

	movies, total := page.Content, page.TotalPages
	if !page.Paged {
		movies, total = query.ApplyLocal(page.Content, view)
	}
	if movies == nil {
		movies = []models.Movie{}
	}

	s.movies = movies
	s.totalPages = total
	s.known = true
	s.local = !page.Paged
	s.err = nil
	s.applied = gen

	clamped := query.Clamp(s.view.Pagination.PageIndex, total)
	followUp := clamped != s.view.Pagination.PageIndex && page.Paged
	s.view.Pagination.PageIndex = clamped
	s.mu.Unlock()

	s.logger.Debug("refresh applied", "generation", gen, "page", view.Pagination.PageIndex, "totalPages", total, "records", len(movies))
	s.observe(OutcomeApplied, start)
	s.notify()

	if followUp {
		s.logger.Info("page index out of range, clamping", "from", view.Pagination.PageIndex, "to", clamped)
		return s.Refresh(ctx)
	}
	return nil
}
