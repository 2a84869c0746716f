// Package records converts catalog records between their wire form and an editable form.
//
// The editable form ([Editable]) is always fully populated: numeric inputs are strings,
// every nested person and the coordinates are present, enums carry defaults. It is what
// forms, flags and stored drafts bind to. [ToWire] is the single place where those strings
// become numbers again.
//
// Neither direction rejects input. Acceptance belongs to the backend.
package records

import (
	"strconv"
	"strings"

	"github.com/desertthunder/moviex/internal/models"
)

// Editable is the form-bound representation of a movie.
type Editable struct {
	ID              *int64            `json:"id,omitempty"`
	Name            string            `json:"name"`
	Tagline         string            `json:"tagline"`
	Genre           models.Genre      `json:"genre"`
	MpaaRating      models.MpaaRating `json:"mpaaRating"`
	Budget          string            `json:"budget"`
	TotalBoxOffice  string            `json:"totalBoxOffice"`
	UsaBoxOffice    string            `json:"usaBoxOffice"`
	Length          string            `json:"length"`
	OscarsCount     string            `json:"oscarsCount"`
	GoldenPalmCount string            `json:"goldenPalmCount"`
	Coordinates     EditableCoords    `json:"coordinates"`
	Director        EditablePerson    `json:"director"`
	Screenwriter    EditablePerson    `json:"screenwriter"`
	Operator        EditablePerson    `json:"operator"`

	// Base is the fetched record this form was hydrated from. Person fields moviex does not
	// edit (location, birthday, ...) are carried from it so an update does not drop them.
	Base *models.Movie `json:"base,omitempty"`
}

type EditableCoords struct {
	X string `json:"x"`
	Y string `json:"y"`
}

type EditablePerson struct {
	Name     string       `json:"name"`
	EyeColor models.Color `json:"eyeColor"`
}

// Template is the all-fields-present default record.
func Template() Editable {
	return Editable{
		Genre:        models.GenreDrama,
		MpaaRating:   models.RatingG,
		Director:     EditablePerson{EyeColor: models.ColorGreen},
		Screenwriter: EditablePerson{EyeColor: models.ColorGreen},
		Operator:     EditablePerson{EyeColor: models.ColorGreen},
	}
}

// ToEditable merges m over [Template]. A nil record yields the template itself.
//
// Only fields present in m override the template: for a decoded record, required numerics
// whose keys were absent stay empty (see [models.Movie.Has]).
func ToEditable(m *models.Movie) Editable {
	e := Template()
	if m == nil {
		return e
	}

	if m.ID != nil {
		id := *m.ID
		e.ID = &id
	}
	base := *m
	e.Base = &base
	e.Name = m.Name
	e.Tagline = m.Tagline
	if m.Genre != "" {
		e.Genre = m.Genre
	}
	if m.MpaaRating != "" {
		e.MpaaRating = m.MpaaRating
	}

	if m.Has("budget") {
		e.Budget = formatFloat(m.Budget)
	}
	if m.Has("totalBoxOffice") {
		e.TotalBoxOffice = strconv.FormatInt(m.TotalBoxOffice, 10)
	}
	if m.Has("goldenPalmCount") {
		e.GoldenPalmCount = strconv.Itoa(m.GoldenPalmCount)
	}
	if m.UsaBoxOffice != nil {
		e.UsaBoxOffice = strconv.FormatInt(*m.UsaBoxOffice, 10)
	}
	if m.Length != nil {
		e.Length = strconv.Itoa(*m.Length)
	}
	if m.OscarsCount != nil {
		e.OscarsCount = strconv.Itoa(*m.OscarsCount)
	}

	if m.Has("coordinates.x") {
		e.Coordinates.X = formatFloat(m.Coordinates.X)
	}
	if m.Has("coordinates.y") {
		e.Coordinates.Y = strconv.FormatInt(m.Coordinates.Y, 10)
	}

	e.Director = mergePerson(e.Director, m.Director)
	e.Screenwriter = mergePerson(e.Screenwriter, m.Screenwriter)
	e.Operator = mergePerson(e.Operator, m.Operator)
	return e
}

// ToWire converts e into the record sent to the backend.
//
// Empty optional numerics (usaBoxOffice, length, oscarsCount) become absent. Required numerics
// that do not parse become zero. A screenwriter whose name is blank becomes absent. The id is
// passed through unchanged.
func ToWire(e Editable) models.Movie {
	m := models.Movie{
		Name:            e.Name,
		Tagline:         e.Tagline,
		Genre:           e.Genre,
		MpaaRating:      e.MpaaRating,
		Budget:          parseFloat(e.Budget),
		TotalBoxOffice:  parseInt64(e.TotalBoxOffice),
		UsaBoxOffice:    optionalInt64(e.UsaBoxOffice),
		Length:          optionalInt(e.Length),
		OscarsCount:     optionalInt(e.OscarsCount),
		GoldenPalmCount: int(parseInt64(e.GoldenPalmCount)),
		Coordinates: models.Coordinates{
			X: parseFloat(e.Coordinates.X),
			Y: parseInt64(e.Coordinates.Y),
		},
	}

	var base models.Movie
	if e.Base != nil {
		base = *e.Base
	}
	m.Director = toWirePerson(e.Director, base.Director)
	m.Operator = toWirePerson(e.Operator, base.Operator)

	if e.ID != nil {
		id := *e.ID
		m.ID = &id
	}

	if strings.TrimSpace(e.Screenwriter.Name) != "" {
		m.Screenwriter = toWirePerson(e.Screenwriter, base.Screenwriter)
	}
	return m
}

func mergePerson(def EditablePerson, p *models.Person) EditablePerson {
	if p == nil {
		return def
	}
	out := def
	out.Name = p.Name
	if p.EyeColor != "" {
		out.EyeColor = p.EyeColor
	}
	return out
}

func toWirePerson(e EditablePerson, extra *models.Person) *models.Person {
	p := &models.Person{}
	if extra != nil {
		*p = *extra
	}
	p.Name = e.Name
	p.EyeColor = e.EyeColor
	return p
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseInt64 accepts "12" and also "12.0"; fractional input is truncated.
func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return int64(parseFloat(s))
}

func optionalInt64(s string) *int64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n := parseInt64(s)
	return &n
}

func optionalInt(s string) *int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n := int(parseInt64(s))
	return &n
}
