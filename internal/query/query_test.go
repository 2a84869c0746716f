package query

import (
	"testing"

	"github.com/desertthunder/moviex/internal/models"
)

func TestEncode(t *testing.T) {
	tc := []struct {
		name  string
		state ViewState
		want  string
	}{
		{
			name: "genre filter",
			state: ViewState{
				Pagination: Pagination{PageIndex: 0, PageSize: 10},
				Filters:    map[string]string{"genre": "DRAMA"},
				Sort:       Sort{Field: "id", Direction: Asc},
			},
			want: "page=0&size=10&sort=id,asc&genre=DRAMA",
		},
		{
			name:  "defaults without filters",
			state: DefaultViewState(),
			want:  "page=0&size=10&sort=id,asc",
		},
		{
			name: "empty filter values are omitted",
			state: ViewState{
				Pagination: Pagination{PageIndex: 2, PageSize: 5},
				Filters:    map[string]string{"name": "", "directorName": "", "genre": "COMEDY"},
				Sort:       Sort{Field: "budget", Direction: Desc},
			},
			want: "page=2&size=5&sort=budget,desc&genre=COMEDY",
		},
		{
			name: "filters in key order and escaped",
			state: ViewState{
				Pagination: Pagination{PageIndex: 1, PageSize: 20},
				Filters:    map[string]string{"name": "Alien & Co", "directorName": "Ridley Scott"},
				Sort:       Sort{Field: "director.name", Direction: Asc},
			},
			want: "page=1&size=20&sort=director.name,asc&directorName=Ridley+Scott&name=Alien+%26+Co",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.state).String()
			if got != tt.want {
				t.Errorf("Encode() = %s, want %s", got, tt.want)
			}
		})
	}

	t.Run("deterministic", func(t *testing.T) {
		state := ViewState{
			Pagination: Pagination{PageIndex: 3, PageSize: 10},
			Filters:    map[string]string{"name": "a", "genre": "DRAMA", "directorName": "b"},
			Sort:       Sort{Field: "name", Direction: Desc},
		}
		first := Encode(state).String()
		for range 100 {
			if got := Encode(state).String(); got != first {
				t.Fatalf("encoding changed between calls: %s != %s", got, first)
			}
		}
	})

	t.Run("Values", func(t *testing.T) {
		vals := Encode(ViewState{
			Pagination: Pagination{PageSize: 10},
			Filters:    map[string]string{"genre": "DRAMA"},
			Sort:       Sort{Field: "id", Direction: Asc},
		}).Values()
		if vals.Get("sort") != "id,asc" || vals.Get("genre") != "DRAMA" || vals.Get("page") != "0" {
			t.Errorf("unexpected values: %v", vals)
		}
	})
}

func TestClamp(t *testing.T) {
	tc := []struct {
		name       string
		page       int
		totalPages int
		want       int
	}{
		{name: "in range", page: 1, totalPages: 3, want: 1},
		{name: "past the end", page: 2, totalPages: 2, want: 1},
		{name: "unknown total", page: 4, totalPages: 0, want: 0},
		{name: "negative page", page: -1, totalPages: 5, want: 0},
		{name: "single page", page: 7, totalPages: 1, want: 0},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.page, tt.totalPages); got != tt.want {
				t.Errorf("Clamp(%d, %d) = %d, want %d", tt.page, tt.totalPages, got, tt.want)
			}
		})
	}
}

func TestViewStateNormalize(t *testing.T) {
	v := ViewState{Filters: map[string]string{"name": "", "genre": "DRAMA"}}
	n := v.Normalize()

	if n.Pagination.PageSize != DefaultPageSize || n.Sort.Field != DefaultSortField || n.Sort.Direction != Asc {
		t.Errorf("defaults not applied: %+v", n)
	}
	if _, ok := n.Filters["name"]; ok {
		t.Error("empty filter should be dropped")
	}

	n.Filters["genre"] = "COMEDY"
	if v.Filters["genre"] != "DRAMA" {
		t.Error("Normalize must not share the filter map")
	}

	t.Run("Clone", func(t *testing.T) {
		c := v.Clone()
		c.Filters["genre"] = "MUSICAL"
		if v.Filters["genre"] != "DRAMA" {
			t.Error("Clone must not share the filter map")
		}
	})
}

func TestToggleSort(t *testing.T) {
	current := Sort{Field: "id", Direction: Asc}

	got := ToggleSort(current, "id")
	if got != (Sort{Field: "id", Direction: Desc}) {
		t.Errorf("same field should flip direction, got %+v", got)
	}

	got = ToggleSort(Sort{Field: "id", Direction: Desc}, "name")
	if got != (Sort{Field: "name", Direction: Asc}) {
		t.Errorf("new field should start ascending, got %+v", got)
	}

	if Asc.Indicator() != "▲" || Desc.Indicator() != "▼" {
		t.Error("unexpected sort indicators")
	}
}

func TestParseSort(t *testing.T) {
	tc := []struct {
		in   string
		want Sort
		ok   bool
	}{
		{in: "name,desc", want: Sort{Field: "name", Direction: Desc}, ok: true},
		{in: "budget", want: Sort{Field: "budget", Direction: Asc}, ok: true},
		{in: "id, ASC", want: Sort{Field: "id", Direction: Asc}, ok: true},
		{in: ",asc", ok: false},
		{in: "id,sideways", ok: false},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSort(tt.in)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("ParseSort(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func movie(id int64, name string, genre models.Genre, oscars int) models.Movie {
	return models.Movie{ID: &id, Name: name, Genre: genre, OscarsCount: &oscars, Director: &models.Person{Name: "dir-" + name}}
}

func TestApplyLocal(t *testing.T) {
	all := []models.Movie{
		movie(3, "Casablanca", models.GenreDrama, 3),
		movie(1, "Alien", models.GenreScienceFiction, 1),
		movie(5, "Cabaret", models.GenreMusical, 8),
		movie(2, "Amadeus", models.GenreDrama, 8),
		movie(4, "Airplane", models.GenreComedy, 0),
	}

	t.Run("sort and page", func(t *testing.T) {
		page, total := ApplyLocal(all, ViewState{
			Pagination: Pagination{PageIndex: 1, PageSize: 2},
			Sort:       Sort{Field: "id", Direction: Asc},
		})
		if total != 3 {
			t.Fatalf("expected 3 pages, got %d", total)
		}
		if len(page) != 2 || *page[0].ID != 3 || *page[1].ID != 4 {
			t.Errorf("unexpected page: %v %v", page[0].IDString(), page[1].IDString())
		}
	})

	t.Run("filter", func(t *testing.T) {
		page, total := ApplyLocal(all, ViewState{
			Pagination: Pagination{PageSize: 10},
			Filters:    map[string]string{"genre": "DRAMA"},
			Sort:       Sort{Field: "name", Direction: Desc},
		})
		if total != 1 || len(page) != 2 {
			t.Fatalf("expected 2 dramas on 1 page, got %d on %d", len(page), total)
		}
		if page[0].Name != "Casablanca" {
			t.Errorf("expected Casablanca first, got %s", page[0].Name)
		}
	})

	t.Run("director filter", func(t *testing.T) {
		page, _ := ApplyLocal(all, ViewState{Filters: map[string]string{"directorName": "dir-Alien"}})
		if len(page) != 1 || page[0].Name != "Alien" {
			t.Errorf("unexpected result: %+v", page)
		}
	})

	t.Run("stable on ties", func(t *testing.T) {
		page, _ := ApplyLocal(all, ViewState{Sort: Sort{Field: "oscarsCount", Direction: Desc}})
		if page[0].Name != "Cabaret" || page[1].Name != "Amadeus" {
			t.Errorf("expected input order preserved for equal oscars, got %s, %s", page[0].Name, page[1].Name)
		}
	})

	t.Run("clamps page index", func(t *testing.T) {
		page, total := ApplyLocal(all, ViewState{Pagination: Pagination{PageIndex: 9, PageSize: 2}})
		if total != 3 || len(page) != 1 || *page[0].ID != 5 {
			t.Errorf("expected last page with id 5, got %d records of %d pages", len(page), total)
		}
	})

	t.Run("empty", func(t *testing.T) {
		page, total := ApplyLocal(nil, DefaultViewState())
		if total != 0 || len(page) != 0 {
			t.Errorf("expected empty result, got %d, %d", len(page), total)
		}
	})
}
