package catalog

import (
	"fmt"
	"strings"
)

// Selector chooses which category a filter keeps.
type Selector string

// SelectAll applies no category predicate.
const SelectAll Selector = "All"

// Selectors lists the choices offered to users, in display order.
var Selectors = []Selector{SelectAll, Selector(Movie), Selector(TVShow)}

// ParseSelector matches s against Selectors, ignoring case. Empty means SelectAll.
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SelectAll, nil
	}
	for _, sel := range Selectors {
		if strings.EqualFold(s, string(sel)) {
			return sel, nil
		}
	}
	return "", fmt.Errorf("unknown type %q: want one of %v", s, Selectors)
}

// Filter returns the records of v matching the category selector whose year_added
// lies in [lo, hi]. Records without year_added are always dropped. An inverted range
// yields an empty view. Order is preserved.
func Filter(v View, selector Selector, lo, hi int) View {
	if lo > hi {
		return View{table: v.table, indices: []int{}}
	}
	return v.Where(func(r Record) bool {
		if selector != SelectAll && r.Category != Category(selector) {
			return false
		}
		y, ok := r.Year()
		return ok && y >= lo && y <= hi
	})
}

// ClampRange limits a requested [lo, hi] to the observed [min, max]. The order of lo
// and hi is kept, so an inverted request stays inverted.
func ClampRange(lo, hi, min, max int) (int, int) {
	return clamp(lo, min, max), clamp(hi, min, max)
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
