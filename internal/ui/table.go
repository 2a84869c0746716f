package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/query"
)

type column struct {
	field string
	title string
	width int
	value func(models.Movie) string
}

// columns follow [query.SortFields], so the n-th column is sorted with key n.
var columns = []column{
	{"id", "ID", 6, func(m models.Movie) string { return m.IDString() }},
	{"name", "Name", 28, func(m models.Movie) string { return m.Name }},
	{"genre", "Genre", 16, func(m models.Movie) string { return m.Genre.Label() }},
	{"director.name", "Director", 22, func(m models.Movie) string { return m.DirectorName() }},
	{"oscarsCount", "Oscars", 8, func(m models.Movie) string {
		if m.OscarsCount == nil {
			return "-"
		}
		return strconv.Itoa(*m.OscarsCount)
	}},
	{"budget", "Budget", 14, func(m models.Movie) string { return strconv.FormatFloat(m.Budget, 'f', -1, 64) }},
}

// tableColumns renders the headers with the sort indicator on the sorted column.
func tableColumns(s query.Sort) []table.Column {
	out := make([]table.Column, len(columns))
	for i, c := range columns {
		title := c.title
		if c.field == s.Field {
			title += " " + s.Direction.Indicator()
		}
		out[i] = table.Column{Title: title, Width: c.width}
	}
	return out
}

func tableRows(movies []models.Movie) []table.Row {
	rows := make([]table.Row, len(movies))
	for i, m := range movies {
		row := make(table.Row, len(columns))
		for j, c := range columns {
			row[j] = c.value(m)
		}
		rows[i] = row
	}
	return rows
}
