package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultSearchLimit caps search results shown to a user.
const DefaultSearchLimit = 20

// Search returns records of v whose title contains query, ignoring case, newest
// release first. Ties keep view order. limit <= 0 returns every match.
// An empty query matches nothing.
func Search(v View, query string, limit int) []Record {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	fold := cases.Fold()
	needle := fold.String(query)

	matches := v.Where(func(r Record) bool {
		return strings.Contains(fold.String(r.Title), needle)
	}).Records()

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].ReleaseYear > matches[j].ReleaseYear
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
