package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/desertthunder/moviex/internal/models"
)

// ApplyLocal filters, sorts and pages an unpaged listing the way the server would.
//
// Used when the backend ignores the query parameters and returns every record.
// Filters are exact matches. PageIndex is clamped against the computed page count.
func ApplyLocal(all []models.Movie, v ViewState) (page []models.Movie, totalPages int) {
	v = v.Normalize()

	matched := make([]models.Movie, 0, len(all))
	for _, m := range all {
		if matches(m, v.Filters) {
			matched = append(matched, m)
		}
	}

	slices.SortStableFunc(matched, func(a, b models.Movie) int {
		c := compareField(a, b, v.Sort.Field)
		if v.Sort.Direction == Desc {
			return -c
		}
		return c
	})

	size := v.Pagination.PageSize
	totalPages = (len(matched) + size - 1) / size
	idx := Clamp(v.Pagination.PageIndex, totalPages)

	start := idx * size
	if start >= len(matched) {
		return []models.Movie{}, totalPages
	}
	end := min(start+size, len(matched))
	return matched[start:end], totalPages
}

func matches(m models.Movie, filters map[string]string) bool {
	for field, want := range filters {
		switch field {
		case "name":
			if m.Name != want {
				return false
			}
		case "genre":
			if !strings.EqualFold(string(m.Genre), want) {
				return false
			}
		case "directorName":
			if m.DirectorName() != want {
				return false
			}
		}
	}
	return true
}

func compareField(a, b models.Movie, field string) int {
	switch field {
	case "name":
		return cmp.Compare(a.Name, b.Name)
	case "genre":
		return cmp.Compare(a.Genre, b.Genre)
	case "director.name":
		return cmp.Compare(a.DirectorName(), b.DirectorName())
	case "oscarsCount":
		return cmp.Compare(derefInt(a.OscarsCount), derefInt(b.OscarsCount))
	case "budget":
		return cmp.Compare(a.Budget, b.Budget)
	default:
		return cmp.Compare(derefInt64(a.ID), derefInt64(b.ID))
	}
}

func derefInt(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

func derefInt64(p *int64) int64 {
	if p == nil {
		return -1
	}
	return *p
}
