package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Column names read from the cleaned dataset.
const (
	ColTitle       = "title"
	ColType        = "type"
	ColYearAdded   = "year_added"
	ColReleaseYear = "release_year"
	ColRating      = "rating"
	ColCountry     = "country"
	ColListedIn    = "listed_in"
	ColDirector    = "director"
	ColCast        = "cast"
)

// RequiredColumns must all be present in the header row.
var RequiredColumns = []string{
	ColTitle, ColType, ColYearAdded, ColReleaseYear, ColRating, ColCountry, ColListedIn,
}

// ListSeparator splits multi-value cells such as country and listed_in.
const ListSeparator = ", "

// ErrEmptyFile is returned when the input has no header row.
var ErrEmptyFile = errors.New("catalog file is empty")

// SchemaError reports required columns missing from the input.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("catalog schema mismatch: missing columns %s", strings.Join(e.Missing, ", "))
}

// LoadFile reads a cleaned catalog CSV from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	table, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return table, nil
}

// Load parses catalog CSV data. A missing required column fails with *SchemaError
// before any row is read.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		rec := Record{
			Title:    cell(row, ColTitle),
			Category: Category(cell(row, ColType)),
			Rating:   orDefault(cell(row, ColRating), DefaultRating),
			Director: orDefault(cell(row, ColDirector), NotAvailable),
			Cast:     orDefault(cell(row, ColCast), NotAvailable),
			Genres:   SplitList(cell(row, ColListedIn)),
		}

		rec.Countries = SplitList(cell(row, ColCountry))
		if len(rec.Countries) == 0 {
			rec.Countries = []string{DefaultCountry}
		}

		rec.YearAdded, err = parseOptionalYear(cell(row, ColYearAdded))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %w", line, ColYearAdded, err)
		}

		if s := cell(row, ColReleaseYear); s != "" {
			y, err := parseYear(s)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s: %w", line, ColReleaseYear, err)
			}
			rec.ReleaseYear = y
		}

		records = append(records, rec)
	}

	return &Table{records: records}, nil
}

// SplitList splits a delimited cell into trimmed, non-empty tokens.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ListSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseOptionalYear(s string) (*int, error) {
	if s == "" || strings.EqualFold(s, "nan") {
		return nil, nil
	}
	y, err := parseYear(s)
	if err != nil {
		return nil, err
	}
	return &y, nil
}

// parseYear accepts integers and whole floats ("2021.0"), as written by pandas for
// columns that contain missing values.
func parseYear(s string) (int, error) {
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("year %q is not a whole number", s)
	}
	return int(f), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
