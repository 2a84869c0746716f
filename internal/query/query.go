// Package query turns catalog view state into the canonical query string of the listing endpoint.
//
// Encoding is pure and deterministic: page, size and the composite sort token come first,
// followed by every non-empty filter in ascending key order.
//
//	page=0&size=10&sort=id,asc&genre=DRAMA
package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether d is asc or desc.
func (d Direction) Valid() bool { return d == Asc || d == Desc }

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// Indicator is the arrow shown next to a sorted column header.
func (d Direction) Indicator() string {
	if d == Desc {
		return "▼"
	}
	return "▲"
}

const (
	DefaultPageSize  = 10
	DefaultSortField = "id"
)

// Sortable fields of the listing, in column order.
var SortFields = []string{"id", "name", "genre", "director.name", "oscarsCount", "budget"}

// Filterable fields of the listing.
var FilterFields = []string{"name", "genre", "directorName"}

// Pagination addresses one page. PageIndex is zero based.
type Pagination struct {
	PageIndex int `json:"page"`
	PageSize  int `json:"size"`
}

// Sort orders the listing by a single field.
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Token renders the composite "<field>,<direction>" form.
func (s Sort) Token() string {
	return s.Field + "," + string(s.Direction)
}

// ViewState is the user controlled pagination, filters and sort of the catalog list.
//
// An absent or empty filter value means no constraint on that field.
type ViewState struct {
	Pagination Pagination        `json:"pagination"`
	Filters    map[string]string `json:"filters,omitempty"`
	Sort       Sort              `json:"sort"`
}

// DefaultViewState is page 0, size 10, sorted by id ascending with no filters.
func DefaultViewState() ViewState {
	return ViewState{
		Pagination: Pagination{PageIndex: 0, PageSize: DefaultPageSize},
		Sort:       Sort{Field: DefaultSortField, Direction: Asc},
	}
}

// Normalize fills zero values with defaults and drops empty filters.
// The result shares no state with v.
func (v ViewState) Normalize() ViewState {
	out := v
	if out.Pagination.PageIndex < 0 {
		out.Pagination.PageIndex = 0
	}
	if out.Pagination.PageSize <= 0 {
		out.Pagination.PageSize = DefaultPageSize
	}
	if out.Sort.Field == "" {
		out.Sort.Field = DefaultSortField
	}
	if !out.Sort.Direction.Valid() {
		out.Sort.Direction = Asc
	}
	out.Filters = nil
	for k, val := range v.Filters {
		if val == "" {
			continue
		}
		if out.Filters == nil {
			out.Filters = make(map[string]string, len(v.Filters))
		}
		out.Filters[k] = val
	}
	return out
}

// Clone returns a deep copy.
func (v ViewState) Clone() ViewState {
	out := v
	if v.Filters != nil {
		out.Filters = make(map[string]string, len(v.Filters))
		for k, val := range v.Filters {
			out.Filters[k] = val
		}
	}
	return out
}

// Pair is one key/value of a [Query].
type Pair struct {
	Key   string
	Value string
}

// Query is the ordered, server addressable form of a [ViewState].
type Query []Pair

// Encode converts v into its canonical query. Encoding the same state twice yields an identical result.
func Encode(v ViewState) Query {
	q := Query{
		{Key: "page", Value: strconv.Itoa(v.Pagination.PageIndex)},
		{Key: "size", Value: strconv.Itoa(v.Pagination.PageSize)},
		{Key: "sort", Value: v.Sort.Token()},
	}

	keys := make([]string, 0, len(v.Filters))
	for k, val := range v.Filters {
		if val == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		q = append(q, Pair{Key: k, Value: v.Filters[k]})
	}
	return q
}

// Get returns the first value stored under key.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Values converts q into [url.Values]. Ordering is lost; use [Query.String] for the canonical form.
func (q Query) Values() url.Values {
	vals := make(url.Values, len(q))
	for _, p := range q {
		vals.Add(p.Key, p.Value)
	}
	return vals
}

// String renders q in order. Keys and values are escaped except for the comma in the sort token.
func (q Query) String() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(escapeValue(p.Value))
	}
	return b.String()
}

func escapeValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "%2C", ",")
}

// Clamp bounds pageIndex to [0, totalPages-1]. Unknown (zero or negative) totalPages clamps to 0.
func Clamp(pageIndex, totalPages int) int {
	if totalPages <= 0 || pageIndex < 0 {
		return 0
	}
	if pageIndex > totalPages-1 {
		return totalPages - 1
	}
	return pageIndex
}

// ToggleSort selects field as the sort column. Selecting the current column flips its direction;
// any other column starts ascending.
func ToggleSort(current Sort, field string) Sort {
	if current.Field == field {
		return Sort{Field: field, Direction: current.Direction.Flip()}
	}
	return Sort{Field: field, Direction: Asc}
}

// IsSortField reports whether field is one of [SortFields].
func IsSortField(field string) bool {
	for _, f := range SortFields {
		if f == field {
			return true
		}
	}
	return false
}

// IsFilterField reports whether field is one of [FilterFields].
func IsFilterField(field string) bool {
	for _, f := range FilterFields {
		if f == field {
			return true
		}
	}
	return false
}

// ParseSort reads a "<field>,<direction>" token. A missing direction means asc.
func ParseSort(token string) (Sort, bool) {
	field, dir, found := strings.Cut(token, ",")
	field = strings.TrimSpace(field)
	if field == "" {
		return Sort{}, false
	}
	s := Sort{Field: field, Direction: Asc}
	if found {
		s.Direction = Direction(strings.ToLower(strings.TrimSpace(dir)))
		if !s.Direction.Valid() {
			return Sort{}, false
		}
	}
	return s, true
}
