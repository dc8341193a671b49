// Package analytics computes the dashboard aggregates over a catalog view.
//
// Every function accepts an empty view and returns zero-length results for it.
package analytics

import (
	"sort"

	"cine-lens/catalog"
)

// DefaultTopN is the number of tokens shown in genre and country breakdowns.
const DefaultTopN = 10

// Field names a multi-value record attribute.
type Field string

const (
	FieldGenres    Field = "listed_in"
	FieldCountries Field = "country"
)

// CategoryCount is the number of records carrying one category value.
type CategoryCount struct {
	Category catalog.Category `json:"category"`
	Count    int              `json:"count"`
}

// YearCount is the number of records added in one year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// TokenCount is the number of occurrences of one token of a multi-value field.
type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// Summary holds the headline metrics of a view.
type Summary struct {
	Total  int `json:"total"`
	Movies int `json:"movies"`
	Shows  int `json:"shows"`
	Years  int `json:"years"` // distinct year_added values
}

// CategoryCounts counts records per category in first-occurrence order.
// Unrecognized category values get their own entry.
func CategoryCounts(v catalog.View) []CategoryCount {
	counts := make(map[catalog.Category]int)
	var order []catalog.Category

	v.Each(func(r catalog.Record) {
		if _, seen := counts[r.Category]; !seen {
			order = append(order, r.Category)
		}
		counts[r.Category]++
	})

	out := make([]CategoryCount, 0, len(order))
	for _, c := range order {
		out = append(out, CategoryCount{Category: c, Count: counts[c]})
	}
	return out
}

// Summarize computes total, per-category and distinct-year counts.
func Summarize(v catalog.View) Summary {
	s := Summary{Total: v.Len()}
	years := make(map[int]struct{})

	v.Each(func(r catalog.Record) {
		switch r.Category {
		case catalog.Movie:
			s.Movies++
		case catalog.TVShow:
			s.Shows++
		}
		if y, ok := r.Year(); ok {
			years[y] = struct{}{}
		}
	})

	s.Years = len(years)
	return s
}

// YearlySeries counts records per year_added, ascending by year. Only years present
// in the view appear; records without a year are skipped.
func YearlySeries(v catalog.View) []YearCount {
	counts := make(map[int]int)
	v.Each(func(r catalog.Record) {
		if y, ok := r.Year(); ok {
			counts[y]++
		}
	})

	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Breakdown flattens a multi-value field across the view and returns the n most
// frequent tokens, highest count first. Equal counts keep the order in which the
// tokens first appear in the view. n <= 0 returns every token.
func Breakdown(v catalog.View, field Field, n int) []TokenCount {
	var tokens func(catalog.Record) []string
	switch field {
	case FieldGenres:
		tokens = func(r catalog.Record) []string { return r.Genres }
	case FieldCountries:
		tokens = func(r catalog.Record) []string { return r.Countries }
	default:
		return []TokenCount{}
	}

	tc := newTokenCounter()
	v.Each(func(r catalog.Record) {
		for _, t := range tokens(r) {
			tc.add(t)
		}
	})
	return tc.top(n)
}

// TopGenres is Breakdown over genres with DefaultTopN.
func TopGenres(v catalog.View) []TokenCount {
	return Breakdown(v, FieldGenres, DefaultTopN)
}

// TopCountries is Breakdown over countries with DefaultTopN.
func TopCountries(v catalog.View) []TokenCount {
	return Breakdown(v, FieldCountries, DefaultTopN)
}

// RatingDistribution counts records per maturity rating label, most frequent first.
func RatingDistribution(v catalog.View) []TokenCount {
	tc := newTokenCounter()
	v.Each(func(r catalog.Record) {
		tc.add(r.Rating)
	})
	return tc.top(0)
}

type tokenCounter struct {
	counts map[string]int
	order  []string
}

func newTokenCounter() *tokenCounter {
	return &tokenCounter{counts: make(map[string]int)}
}

func (tc *tokenCounter) add(token string) {
	if _, seen := tc.counts[token]; !seen {
		tc.order = append(tc.order, token)
	}
	tc.counts[token]++
}

func (tc *tokenCounter) top(n int) []TokenCount {
	out := make([]TokenCount, 0, len(tc.order))
	for _, t := range tc.order {
		out = append(out, TokenCount{Token: t, Count: tc.counts[t]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
