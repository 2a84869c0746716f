package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// MaxCoordinateX is the largest x coordinate the backend accepts.
const MaxCoordinateX = 506

// MaxTaglineLength is the backend's limit on tagline length.
const MaxTaglineLength = 168

// Movie is the wire form of a catalog record.
//
// Pointer fields are optional: nil is sent as an absent key. A nil ID means the record has not been persisted.
type Movie struct {
	ID              *int64      `json:"id,omitempty"`
	Name            string      `json:"name"`
	Tagline         string      `json:"tagline"`
	Genre           Genre       `json:"genre,omitempty"`
	MpaaRating      MpaaRating  `json:"mpaaRating"`
	Budget          float64     `json:"budget"`
	TotalBoxOffice  int64       `json:"totalBoxOffice"`
	UsaBoxOffice    *int64      `json:"usaBoxOffice,omitempty"`
	Length          *int        `json:"length,omitempty"`
	OscarsCount     *int        `json:"oscarsCount,omitempty"`
	GoldenPalmCount int         `json:"goldenPalmCount"`
	Coordinates     Coordinates `json:"coordinates"`
	Director        *Person     `json:"director"`
	Screenwriter    *Person     `json:"screenwriter,omitempty"`
	Operator        *Person     `json:"operator"`
	CreationDate    string      `json:"creationDate,omitempty"`

	// present is set by UnmarshalJSON. Zero means the record was built in Go and every field counts as set.
	present wireFields
}

// wireFields records which required numeric keys a decoded record carried.
type wireFields uint8

const (
	fieldBudget wireFields = 1 << iota
	fieldTotalBoxOffice
	fieldGoldenPalmCount
	fieldCoordinatesX
	fieldCoordinatesY
	fieldsDecoded
)

var fieldNames = map[string]wireFields{
	"budget":          fieldBudget,
	"totalBoxOffice":  fieldTotalBoxOffice,
	"goldenPalmCount": fieldGoldenPalmCount,
	"coordinates.x":   fieldCoordinatesX,
	"coordinates.y":   fieldCoordinatesY,
}

// Has reports whether field carried a value on the wire. Only budget, totalBoxOffice,
// goldenPalmCount, coordinates.x and coordinates.y are tracked; the other fields are
// pointers or strings whose zero value already means absent.
func (m Movie) Has(field string) bool {
	bit, tracked := fieldNames[field]
	if !tracked || m.present&fieldsDecoded == 0 {
		return true
	}
	return m.present&bit != 0
}

func hasValue(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// UnmarshalJSON decodes the record and notes which required numeric keys were present.
func (m *Movie) UnmarshalJSON(data []byte) error {
	type wire Movie
	w := wire(*m)
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var keys struct {
		Budget          json.RawMessage `json:"budget"`
		TotalBoxOffice  json.RawMessage `json:"totalBoxOffice"`
		GoldenPalmCount json.RawMessage `json:"goldenPalmCount"`
		Coordinates     *struct {
			X json.RawMessage `json:"x"`
			Y json.RawMessage `json:"y"`
		} `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	present := fieldsDecoded
	for bit, raw := range map[wireFields]json.RawMessage{
		fieldBudget:          keys.Budget,
		fieldTotalBoxOffice:  keys.TotalBoxOffice,
		fieldGoldenPalmCount: keys.GoldenPalmCount,
	} {
		if hasValue(raw) {
			present |= bit
		}
	}
	if c := keys.Coordinates; c != nil {
		if hasValue(c.X) {
			present |= fieldCoordinatesX
		}
		if hasValue(c.Y) {
			present |= fieldCoordinatesY
		}
	}

	*m = Movie(w)
	m.present = present
	return nil
}

// Coordinates of a movie. X must not exceed [MaxCoordinateX].
type Coordinates struct {
	X float64 `json:"x"`
	Y int64   `json:"y"`
}

// Person is a director, screenwriter or operator.
//
// Only Name and EyeColor are edited by moviex; the remaining fields are carried through untouched.
type Person struct {
	ID        *int64    `json:"id,omitempty"`
	Name      string    `json:"name"`
	EyeColor  Color     `json:"eyeColor"`
	HairColor *Color    `json:"hairColor,omitempty"`
	Location  *Location `json:"location,omitempty"`
	Birthday  *string   `json:"birthday,omitempty"`
	Weight    *float64  `json:"weight,omitempty"`
}

type Location struct {
	ID   *int64  `json:"id,omitempty"`
	X    float64 `json:"x"`
	Y    int64   `json:"y"`
	Z    float64 `json:"z"`
	Name string  `json:"name"`
}

// HasID reports whether the record has been persisted.
func (m Movie) HasID() bool {
	return m.ID != nil
}

// IDString returns the id or "-" when absent.
func (m Movie) IDString() string {
	if m.ID == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *m.ID)
}

// DirectorName is safe to call on records with no director.
func (m Movie) DirectorName() string {
	if m.Director == nil {
		return ""
	}
	return m.Director.Name
}

// Page is one page of the catalog listing.
type Page struct {
	Content    []Movie `json:"content"`
	TotalPages int     `json:"totalPages"`
	// Paged is false when the backend answered with a bare array and ignored the paging parameters.
	Paged bool `json:"-"`
}

// UnmarshalJSON accepts both the paged object form and a bare array of records.
func (p *Page) UnmarshalJSON(data []byte) error {
	var list []Movie
	if err := json.Unmarshal(data, &list); err == nil {
		*p = Page{Content: list, TotalPages: 0, Paged: false}
		return nil
	}

	type paged Page
	var v paged
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Page(v)
	p.Paged = true
	if p.Content == nil {
		p.Content = []Movie{}
	}
	return nil
}

// ImportStatus is the outcome of a file import.
type ImportStatus string

const (
	ImportSuccess ImportStatus = "SUCCESS"
	ImportFailure ImportStatus = "FAILURE"
)

// ImportHistoryEntry describes one file import run on the backend.
type ImportHistoryEntry struct {
	ID            int64        `json:"id"`
	ImportDate    string       `json:"importDate"`
	Status        ImportStatus `json:"status"`
	ImportedCount *int         `json:"importedCount,omitempty"`
	Details       string       `json:"details,omitempty"`
	ObjectName    string       `json:"objectName,omitempty"`
}

// importDateLayouts covers ISO local date-time with and without fractional seconds and zone.
var importDateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// Date parses ImportDate. The zero time is returned when it cannot be parsed.
func (e ImportHistoryEntry) Date() time.Time {
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, e.ImportDate); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Downloadable reports whether the backend kept the uploaded file.
func (e ImportHistoryEntry) Downloadable() bool {
	return e.ObjectName != ""
}
