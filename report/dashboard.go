// Package report composes the analytics of one filter selection into a dashboard.
package report

import (
	"time"

	"cine-lens/analytics"
	"cine-lens/catalog"
)

// DefaultFromYear is the lower year bound preselected for new dashboards.
const DefaultFromYear = 2015

// Filter is a user's filter selection.
type Filter struct {
	Selector catalog.Selector `json:"type"`
	From     int              `json:"from"`
	To       int              `json:"to"`
}

// DefaultFilter selects every category from DefaultFromYear (or the first observed
// year, if later) to the last observed year.
func DefaultFilter(table *catalog.Table) Filter {
	min, max, ok := table.YearBounds()
	if !ok {
		return Filter{Selector: catalog.SelectAll}
	}
	from, to := catalog.ClampRange(DefaultFromYear, max, min, max)
	return Filter{Selector: catalog.SelectAll, From: from, To: to}
}

// Dashboard holds every aggregate shown for one filter selection.
type Dashboard struct {
	Filter       Filter                    `json:"filter"`
	Summary      analytics.Summary         `json:"summary"`
	MoviePct     float64                   `json:"movie_pct"`
	TVPct        float64                   `json:"tv_pct"`
	Years        analytics.YearStats       `json:"years"`
	Categories   []analytics.CategoryCount `json:"categories"`
	Yearly       []analytics.YearCount     `json:"yearly"`
	TopGenres    []analytics.TokenCount    `json:"top_genres"`
	TopCountries []analytics.TokenCount    `json:"top_countries"`
	Ratings      []analytics.TokenCount    `json:"ratings"`
	GeneratedAt  time.Time                 `json:"generated_at"`
}

// Resolve fills in a zero selector or year bound and clamps the year range to the
// observed bounds of table. A zero From or To means the observed bound.
func Resolve(table *catalog.Table, f Filter) Filter {
	if f.Selector == "" {
		f.Selector = catalog.SelectAll
	}
	if min, max, ok := table.YearBounds(); ok {
		if f.From == 0 {
			f.From = min
		}
		if f.To == 0 {
			f.To = max
		}
		f.From, f.To = catalog.ClampRange(f.From, f.To, min, max)
	}
	return f
}

// Build resolves f against table and aggregates the filtered view.
func Build(table *catalog.Table, f Filter) Dashboard {
	f = Resolve(table, f)
	return FromView(catalog.Filter(table.All(), f.Selector, f.From, f.To), f)
}

// FromView aggregates an already filtered view.
func FromView(view catalog.View, f Filter) Dashboard {
	moviePct, tvPct := analytics.ContentTypePercentage(view)

	return Dashboard{
		Filter:       f,
		Summary:      analytics.Summarize(view),
		MoviePct:     moviePct,
		TVPct:        tvPct,
		Years:        analytics.YearlyStats(view),
		Categories:   analytics.CategoryCounts(view),
		Yearly:       analytics.YearlySeries(view),
		TopGenres:    analytics.TopGenres(view),
		TopCountries: analytics.TopCountries(view),
		Ratings:      analytics.RatingDistribution(view),
		GeneratedAt:  time.Now(),
	}
}
