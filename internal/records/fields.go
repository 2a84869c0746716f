package records

import (
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/moviex/internal/models"
)

// Field paths use the backend's validation keys so an error like
// "director.name: Person name cannot be empty" can be corrected with Set("director.name", ...).
type accessor struct {
	get func(*Editable) string
	set func(*Editable, string)
}

var fields = map[string]accessor{
	"name":            {func(e *Editable) string { return e.Name }, func(e *Editable, v string) { e.Name = v }},
	"tagline":         {func(e *Editable) string { return e.Tagline }, func(e *Editable, v string) { e.Tagline = v }},
	"genre":           {func(e *Editable) string { return string(e.Genre) }, func(e *Editable, v string) { e.Genre = genre(v) }},
	"mpaaRating":      {func(e *Editable) string { return string(e.MpaaRating) }, func(e *Editable, v string) { e.MpaaRating = rating(v) }},
	"budget":          {func(e *Editable) string { return e.Budget }, func(e *Editable, v string) { e.Budget = v }},
	"totalBoxOffice":  {func(e *Editable) string { return e.TotalBoxOffice }, func(e *Editable, v string) { e.TotalBoxOffice = v }},
	"usaBoxOffice":    {func(e *Editable) string { return e.UsaBoxOffice }, func(e *Editable, v string) { e.UsaBoxOffice = v }},
	"length":          {func(e *Editable) string { return e.Length }, func(e *Editable, v string) { e.Length = v }},
	"oscarsCount":     {func(e *Editable) string { return e.OscarsCount }, func(e *Editable, v string) { e.OscarsCount = v }},
	"goldenPalmCount": {func(e *Editable) string { return e.GoldenPalmCount }, func(e *Editable, v string) { e.GoldenPalmCount = v }},
	"coordinates.x":   {func(e *Editable) string { return e.Coordinates.X }, func(e *Editable, v string) { e.Coordinates.X = v }},
	"coordinates.y":   {func(e *Editable) string { return e.Coordinates.Y }, func(e *Editable, v string) { e.Coordinates.Y = v }},
}

func init() {
	people := map[string]func(*Editable) *EditablePerson{
		"director":     func(e *Editable) *EditablePerson { return &e.Director },
		"screenwriter": func(e *Editable) *EditablePerson { return &e.Screenwriter },
		"operator":     func(e *Editable) *EditablePerson { return &e.Operator },
	}
	for role, person := range people {
		fields[role+".name"] = accessor{
			get: func(e *Editable) string { return person(e).Name },
			set: func(e *Editable, v string) { person(e).Name = v },
		}
		fields[role+".eyeColor"] = accessor{
			get: func(e *Editable) string { return string(person(e).EyeColor) },
			set: func(e *Editable, v string) { person(e).EyeColor = color(v) },
		}
	}
}

// FieldNames lists every settable field path in sorted order.
func FieldNames() []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set assigns value to the field at path. Only unknown paths are an error:
// values are stored as given (enums are upper cased) and judged by the backend.
func (e *Editable) Set(path, value string) error {
	f, ok := fields[path]
	if !ok {
		return fmt.Errorf("unknown field %q", path)
	}
	f.set(e, value)
	return nil
}

// Get returns the string form of the field at path.
func (e *Editable) Get(path string) (string, bool) {
	f, ok := fields[path]
	if !ok {
		return "", false
	}
	return f.get(e), true
}

// Apply runs Set for each "path=value" assignment.
func (e *Editable) Apply(assignments []string) error {
	for _, a := range assignments {
		path, value, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("assignment %q must look like field=value", a)
		}
		if err := e.Set(strings.TrimSpace(path), value); err != nil {
			return err
		}
	}
	return nil
}

func genre(v string) models.Genre {
	if g, ok := models.ParseGenre(v); ok {
		return g
	}
	return models.Genre(strings.ToUpper(strings.TrimSpace(v)))
}

func rating(v string) models.MpaaRating {
	if r, ok := models.ParseMpaaRating(v); ok {
		return r
	}
	return models.MpaaRating(strings.ToUpper(strings.TrimSpace(v)))
}

func color(v string) models.Color {
	if c, ok := models.ParseColor(v); ok {
		return c
	}
	return models.Color(strings.ToUpper(strings.TrimSpace(v)))
}
