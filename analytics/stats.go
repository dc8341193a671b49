package analytics

import (
	"math"

	"cine-lens/catalog"
)

// YearStats summarises year_added over a view. All fields are 0 when no record has
// a year; real years are never 0.
type YearStats struct {
	MinYear int `json:"min_year"`
	MaxYear int `json:"max_year"`
	AvgYear int `json:"avg_year"`
}

// ContentTypePercentage returns the share of movies and TV shows in v, in percent
// rounded to two decimals. The denominator is every record in the view, so records
// with an unrecognized category lower both shares rather than being dropped.
// An empty view returns (0, 0).
func ContentTypePercentage(v catalog.View) (moviePct, tvPct float64) {
	s := Summarize(v)
	if s.Total == 0 {
		return 0, 0
	}
	total := float64(s.Total)
	return Round2(float64(s.Movies) / total * 100), Round2(float64(s.Shows) / total * 100)
}

// YearlyStats returns min, max and floor-of-mean year_added, ignoring records
// without a year.
func YearlyStats(v catalog.View) YearStats {
	var (
		stats YearStats
		sum   int
		n     int
	)

	v.Each(func(r catalog.Record) {
		y, ok := r.Year()
		if !ok {
			return
		}
		if n == 0 || y < stats.MinYear {
			stats.MinYear = y
		}
		if n == 0 || y > stats.MaxYear {
			stats.MaxYear = y
		}
		sum += y
		n++
	})

	if n == 0 {
		return YearStats{}
	}
	stats.AvgYear = floorDiv(sum, n)
	return stats
}

// Round2 rounds to two decimal places, halves to even.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
