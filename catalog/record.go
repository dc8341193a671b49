package catalog

// Category classifies a catalog record.
type Category string

const (
	Movie  Category = "Movie"
	TVShow Category = "TV Show"
)

// Known reports whether c is one of the two recognized categories.
func (c Category) Known() bool {
	return c == Movie || c == TVShow
}

// Default values applied to empty cells, matching the cleaned dataset.
const (
	DefaultRating  = "Not Rated"
	DefaultCountry = "Unknown"
	NotAvailable   = "Not Available"
)

// Record is one title in the catalog.
type Record struct {
	Title       string   `json:"title"`
	Category    Category `json:"type"`
	YearAdded   *int     `json:"year_added,omitempty"` // nil when missing
	ReleaseYear int      `json:"release_year"`
	Rating      string   `json:"rating"`
	Countries   []string `json:"countries"`
	Genres      []string `json:"genres"`
	Director    string   `json:"director"`
	Cast        string   `json:"cast"`
}

// Year returns year_added and whether it is present.
func (r Record) Year() (int, bool) {
	if r.YearAdded == nil {
		return 0, false
	}
	return *r.YearAdded, true
}

// Clone returns a copy of r that shares no memory with it.
func (r Record) Clone() Record {
	if r.YearAdded != nil {
		y := *r.YearAdded
		r.YearAdded = &y
	}
	r.Countries = cloneStrings(r.Countries)
	r.Genres = cloneStrings(r.Genres)
	return r
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
