package models

import "strings"

// Genre is a movie genre as spelled by the backend.
type Genre string

const (
	GenreDrama          Genre = "DRAMA"
	GenreComedy         Genre = "COMEDY"
	GenreMusical        Genre = "MUSICAL"
	GenreAdventure      Genre = "ADVENTURE"
	GenreScienceFiction Genre = "SCIENCE_FICTION"
)

// Genres lists every genre in display order.
var Genres = []Genre{GenreDrama, GenreComedy, GenreMusical, GenreAdventure, GenreScienceFiction}

func (g Genre) Valid() bool {
	for _, v := range Genres {
		if g == v {
			return true
		}
	}
	return false
}

// Label is the human readable form, e.g. "Science Fiction".
func (g Genre) Label() string {
	return titleCase(string(g))
}

// MpaaRating is a motion picture rating.
type MpaaRating string

const (
	RatingG    MpaaRating = "G"
	RatingPG   MpaaRating = "PG"
	RatingPG13 MpaaRating = "PG_13"
	RatingNC17 MpaaRating = "NC_17"
)

var MpaaRatings = []MpaaRating{RatingG, RatingPG, RatingPG13, RatingNC17}

func (r MpaaRating) Valid() bool {
	for _, v := range MpaaRatings {
		if r == v {
			return true
		}
	}
	return false
}

// Label renders PG_13 as PG-13.
func (r MpaaRating) Label() string {
	return strings.ReplaceAll(string(r), "_", "-")
}

// Color is an eye or hair color.
type Color string

const (
	ColorGreen  Color = "GREEN"
	ColorRed    Color = "RED"
	ColorBlack  Color = "BLACK"
	ColorYellow Color = "YELLOW"
	ColorBrown  Color = "BROWN"
)

var Colors = []Color{ColorGreen, ColorRed, ColorBlack, ColorYellow, ColorBrown}

func (c Color) Valid() bool {
	for _, v := range Colors {
		if c == v {
			return true
		}
	}
	return false
}

// ParseGenre accepts any casing and spaces or dashes in place of underscores.
func ParseGenre(s string) (Genre, bool) {
	g := Genre(normalizeEnum(s))
	return g, g.Valid()
}

// ParseMpaaRating accepts "pg-13" as well as "PG_13".
func ParseMpaaRating(s string) (MpaaRating, bool) {
	r := MpaaRating(normalizeEnum(s))
	return r, r.Valid()
}

func ParseColor(s string) (Color, bool) {
	c := Color(normalizeEnum(s))
	return c, c.Valid()
}

func normalizeEnum(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func titleCase(s string) string {
	words := strings.Split(strings.ToLower(s), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
