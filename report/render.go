package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"cine-lens/analytics"
	"cine-lens/catalog"
	"cine-lens/rating"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// RenderText lays the dashboard out as console tables.
func RenderText(d Dashboard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Catalog dashboard: %s, %d-%d\n\n", d.Filter.Selector, d.Filter.From, d.Filter.To)

	b.WriteString(renderTable("Overview", []string{"Metric", "Value"}, [][]string{
		{"Total Titles", strconv.Itoa(d.Summary.Total)},
		{"Movies", fmt.Sprintf("%d (%.2f%%)", d.Summary.Movies, d.MoviePct)},
		{"TV Shows", fmt.Sprintf("%d (%.2f%%)", d.Summary.Shows, d.TVPct)},
		{"Years Covered", strconv.Itoa(d.Summary.Years)},
		{"First Year Added", yearOrDash(d.Years.MinYear)},
		{"Last Year Added", yearOrDash(d.Years.MaxYear)},
		{"Average Year Added", yearOrDash(d.Years.AvgYear)},
	}))

	yearly := make([][]string, 0, len(d.Yearly))
	for _, y := range d.Yearly {
		yearly = append(yearly, []string{strconv.Itoa(y.Year), strconv.Itoa(y.Count)})
	}
	b.WriteString(renderTable("Content Added Over Years", []string{"Year", "Titles"}, yearly))

	b.WriteString(renderTable("Top Genres", []string{"Genre", "Titles"}, tokenRows(d.TopGenres)))
	b.WriteString(renderTable("Top Countries", []string{"Country", "Titles"}, tokenRows(d.TopCountries)))
	b.WriteString(renderTable("Rating Distribution", []string{"Rating", "Titles"}, tokenRows(d.Ratings)))

	return b.String()
}

// RenderSearch lists search results with the columns shown to users.
func RenderSearch(query string, records []catalog.Record) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Title,
			string(r.Category),
			strconv.Itoa(r.ReleaseYear),
			r.Rating,
			strings.Join(r.Countries, catalog.ListSeparator),
		})
	}
	title := fmt.Sprintf("Found %d titles for %q", len(records), query)
	return renderAligned(title, []string{"Title", "Type", "Release Year", "Rating", "Country"}, rows, false)
}

// RenderRating shows a lookup result, or a not-found notice.
func RenderRating(title string, res rating.Result) string {
	if !res.Found {
		return fmt.Sprintf("%q not found or API limit reached.\n", title)
	}
	return renderAligned(title, []string{"Rating", "Votes", "Runtime"}, [][]string{
		{res.Record.Rating, res.Record.Votes, res.Record.Runtime},
	}, false)
}

func tokenRows(tokens []analytics.TokenCount) [][]string {
	rows := make([][]string, 0, len(tokens))
	for _, t := range tokens {
		rows = append(rows, []string{t.Token, strconv.Itoa(t.Count)})
	}
	return rows
}

func yearOrDash(y int) string {
	if y == 0 {
		return "-"
	}
	return strconv.Itoa(y)
}

func renderTable(title string, headers []string, rows [][]string) string {
	return renderAligned(title, headers, rows, true)
}

// renderAligned renders a rounded table; numericLast right-aligns the last column.
func renderAligned(title string, headers []string, rows [][]string, numericLast bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	if numericLast {
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: len(headers), Align: text.AlignRight, AlignHeader: text.AlignLeft},
		})
	}

	return tw.Render() + "\n\n"
}
