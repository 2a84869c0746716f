package catalog

import (
	"context"
	"sync"

	"github.com/desertthunder/moviex/internal/query"
)

// ViewChange is a partial update of the view state. Nil fields are left alone.
type ViewChange struct {
	PageIndex *int
	PageSize  *int
	Sort      *query.Sort
	// Filters are merged key by key; an empty value removes that filter.
	Filters map[string]string
	// ClearFilters drops every filter before Filters is merged.
	ClearFilters bool
}

// SetViewState merges change into the view state, clamps the page index and refreshes.
func (s *Store) SetViewState(ctx context.Context, change ViewChange) error {
	s.mu.Lock()
	s.applyLocked(change)
	s.mu.Unlock()

	return s.Refresh(ctx)
}

func (s *Store) applyLocked(change ViewChange) {
	v := s.view.Clone()

	if change.PageSize != nil && *change.PageSize > 0 && *change.PageSize != v.Pagination.PageSize {
		if s.known {
			// Re-estimate the page count from the upper bound of records under the old size.
			records := s.totalPages * v.Pagination.PageSize
			s.totalPages = (records + *change.PageSize - 1) / *change.PageSize
		}
		v.Pagination.PageSize = *change.PageSize
	}
	if change.PageIndex != nil {
		v.Pagination.PageIndex = *change.PageIndex
	}
	if change.Sort != nil {
		v.Sort = *change.Sort
	}
	if change.ClearFilters {
		v.Filters = nil
	}
	for k, val := range change.Filters {
		if v.Filters == nil {
			v.Filters = make(map[string]string)
		}
		if val == "" {
			delete(v.Filters, k)
			continue
		}
		v.Filters[k] = val
	}

	v = v.Normalize()
	if s.known {
		v.Pagination.PageIndex = query.Clamp(v.Pagination.PageIndex, s.totalPages)
	}
	s.view = v
	s.revision++
}

// NextPage moves forward one page when a following page exists. It reports whether it moved.
func (s *Store) NextPage(ctx context.Context) (bool, error) {
	snap := s.Snapshot()
	if !snap.CanNext() {
		return false, nil
	}
	next := snap.View.Pagination.PageIndex + 1
	return true, s.SetViewState(ctx, ViewChange{PageIndex: &next})
}

// PrevPage moves back one page when not on the first. It reports whether it moved.
func (s *Store) PrevPage(ctx context.Context) (bool, error) {
	snap := s.Snapshot()
	if !snap.CanPrev() {
		return false, nil
	}
	prev := snap.View.Pagination.PageIndex - 1
	return true, s.SetViewState(ctx, ViewChange{PageIndex: &prev})
}

// ToggleSort sorts by field, flipping the direction if it is already the sort field.
func (s *Store) ToggleSort(ctx context.Context, field string) error {
	s.mu.Lock()
	next := query.ToggleSort(s.view.Sort, field)
	s.applyLocked(ViewChange{Sort: &next})
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// SetFilter sets or, with an empty value, clears one filter.
func (s *Store) SetFilter(ctx context.Context, field, value string) error {
	return s.SetViewState(ctx, ViewChange{Filters: map[string]string{field: value}})
}

// Consume refreshes the store once per value received on signals until ctx is cancelled or
// signals is closed. Refreshes run concurrently and are not coalesced; the generation rule
// decides which result is shown. Consume waits for started refreshes before returning.
func Consume[T any](ctx context.Context, s *Store, signals <-chan T) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				// Errors are recorded in the snapshot.
				s.Refresh(ctx)
			}()
		}
	}
}
