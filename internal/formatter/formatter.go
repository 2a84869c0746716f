// package formatter renders catalog data as JSON, CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/shared"
)

// Format is an output encoding.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, CSV, Markdown, Text}

// ParseFormat accepts a format name or a common alias ("md", "txt").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
}

// Ext is the file extension for the format, without the dot.
func (f Format) Ext() string {
	switch f {
	case Markdown:
		return "md"
	case Text:
		return "txt"
	default:
		return string(f)
	}
}

var movieHeaders = []string{
	"ID", "Name", "Tagline", "Genre", "MPAA", "Budget", "Total Box Office", "USA Box Office",
	"Length", "Oscars", "Golden Palms", "X", "Y", "Director", "Screenwriter", "Operator", "Created",
}

func optInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func optInt64(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

func personName(p *models.Person) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func movieRow(m models.Movie) []string {
	return []string{
		m.IDString(),
		m.Name,
		m.Tagline,
		string(m.Genre),
		string(m.MpaaRating),
		strconv.FormatFloat(m.Budget, 'f', -1, 64),
		strconv.FormatInt(m.TotalBoxOffice, 10),
		optInt64(m.UsaBoxOffice),
		optInt(m.Length),
		optInt(m.OscarsCount),
		strconv.Itoa(m.GoldenPalmCount),
		strconv.FormatFloat(m.Coordinates.X, 'f', -1, 64),
		strconv.FormatInt(m.Coordinates.Y, 10),
		personName(m.Director),
		personName(m.Screenwriter),
		personName(m.Operator),
		m.CreationDate,
	}
}

// MoviesToJSON encodes movies as an indented JSON array.
func MoviesToJSON(movies []models.Movie) ([]byte, error) {
	if movies == nil {
		movies = []models.Movie{}
	}
	data, err := json.MarshalIndent(movies, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal movies: %w", err)
	}
	return append(data, '\n'), nil
}

// MoviesToCSV writes one row per movie under a header row.
func MoviesToCSV(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(movieHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, m := range movies {
		if err := writer.Write(movieRow(m)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

// MoviesToMarkdown renders a titled table of the main columns.
func MoviesToMarkdown(title string, movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Movies**: %d\n\n", len(movies))
	if len(movies) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("| ID | Name | Genre | MPAA | Oscars | Golden Palms | Director |\n")
	buf.WriteString("|----|------|-------|------|--------|--------------|----------|\n")
	for _, m := range movies {
		fmt.Fprintf(&buf, "| %s | %s | %s | %s | %s | %d | %s |\n",
			m.IDString(),
			escapeCell(m.Name),
			m.Genre.Label(),
			m.MpaaRating.Label(),
			optInt(m.OscarsCount),
			m.GoldenPalmCount,
			escapeCell(m.DirectorName()),
		)
	}
	return buf.Bytes(), nil
}

// MoviesToText renders a numbered list.
func MoviesToText(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Movies: %d\n\n", len(movies))
	for i, m := range movies {
		fmt.Fprintf(&buf, "%d. [%s] %s (%s, %s) dir. %s\n",
			i+1, m.IDString(), m.Name, m.Genre.Label(), m.MpaaRating.Label(), m.DirectorName())
	}
	return buf.Bytes(), nil
}

// RenderMovies encodes movies in format. The title is used by Markdown only.
func RenderMovies(format Format, title string, movies []models.Movie) ([]byte, error) {
	switch format {
	case JSON:
		return MoviesToJSON(movies)
	case CSV:
		return MoviesToCSV(movies)
	case Markdown:
		return MoviesToMarkdown(title, movies)
	case Text:
		return MoviesToText(movies)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
}

// WriteMovies renders movies into path and returns the path written.
//
// Defaults to movies_export_{epoch}.{ext} when path is empty.
func WriteMovies(movies []models.Movie, format Format, title, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("movies_export_%d.%s", time.Now().Unix(), format.Ext())
	}

	data, err := RenderMovies(format, title, movies)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// HistoryToText lists import runs, one per line. The imported count only appears for successful runs.
func HistoryToText(entries []models.ImportHistoryEntry) []byte {
	var buf bytes.Buffer

	if len(entries) == 0 {
		buf.WriteString("No imports yet.\n")
		return buf.Bytes()
	}
	for _, e := range entries {
		fmt.Fprintf(&buf, "#%d  %s  %s", e.ID, e.ImportDate, e.Status)
		if e.Status == models.ImportSuccess && e.ImportedCount != nil {
			fmt.Fprintf(&buf, "  %d imported", *e.ImportedCount)
		}
		if e.Details != "" {
			fmt.Fprintf(&buf, "  %s", e.Details)
		}
		if e.Downloadable() {
			fmt.Fprintf(&buf, "  [%s]", e.ObjectName)
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// ToJSON encodes any value as indented JSON followed by a newline.
func ToJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}
