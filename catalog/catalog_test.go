package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description,year_added
s1,Movie,Dick Johnson Is Dead,Kirsten Johnson,Not Available,United States,2021-09-25,2020,PG-13,90 min,Documentaries,desc,2021.0
s2,TV Show,Blood & Water,Not Available,Ama Qamata,South Africa,2021-09-24,2021,TV-MA,2 Seasons,"International TV Shows, TV Dramas, TV Mysteries",desc,2021.0
s3,TV Show,Ganglands,Julien Leclercq,Sami Bouajila,Unknown,2021-09-24,2021,TV-MA,1 Season,"Crime TV Shows, International TV Shows, TV Action & Adventure",desc,2021.0
s4,Movie,My Little Pony,Robert Cullen,Vanessa Hudgens,,2019-06-01,2021,,91 min,Children & Family Movies,desc,2019
s5,Movie,Sankofa,Haile Gerima,Kofi Ghanaba,"United States, Ghana, Burkina Faso",,1993,TV-MA,125 min,"Dramas, Independent Movies, International Movies",desc,
s6,TV Show,Dark,Baran bo Odar,Louis Hofmann,Germany,2017-12-01,2017,TV-MA,3 Seasons,"Crime TV Shows, TV Dramas",desc,2017.0
`

func loadSample(t *testing.T) *Table {
	t.Helper()
	table, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return table
}

func titles(rs []Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Title
	}
	return out
}

func TestLoad(t *testing.T) {
	table := loadSample(t)
	require.Equal(t, 6, table.Len())

	first := table.At(0)
	assert.Equal(t, "Dick Johnson Is Dead", first.Title)
	assert.Equal(t, Movie, first.Category)
	y, ok := first.Year()
	assert.True(t, ok)
	assert.Equal(t, 2021, y)
	assert.Equal(t, 2020, first.ReleaseYear)

	blood := table.At(1)
	assert.Equal(t, []string{"International TV Shows", "TV Dramas", "TV Mysteries"}, blood.Genres)

	pony := table.At(3)
	assert.Equal(t, []string{DefaultCountry}, pony.Countries)
	assert.Equal(t, DefaultRating, pony.Rating)

	sankofa := table.At(4)
	assert.Nil(t, sankofa.YearAdded)
	assert.Equal(t, []string{"United States", "Ghana", "Burkina Faso"}, sankofa.Countries)
}

func TestLoadMissingColumn(t *testing.T) {
	data := "title,type,release_year,rating,country\nDark,TV Show,2017,TV-MA,Germany\n"
	_, err := Load(strings.NewReader(data))
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{ColYearAdded, ColListedIn}, schemaErr.Missing)
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestLoadInvalidYear(t *testing.T) {
	data := "title,type,year_added,release_year,rating,country,listed_in\nDark,TV Show,soon,2017,TV-MA,Germany,TV Dramas\n"
	_, err := Load(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6, table.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Equal(t, []string{"Drama"}, SplitList("Drama"))
	assert.Equal(t, []string{"Drama", "Comedy"}, SplitList("Drama, Comedy"))
	assert.Equal(t, []string{"Drama", "Comedy"}, SplitList("Drama, , Comedy"))
}

func TestYearBounds(t *testing.T) {
	min, max, ok := loadSample(t).YearBounds()
	require.True(t, ok)
	assert.Equal(t, 2017, min)
	assert.Equal(t, 2021, max)

	_, _, ok = NewTable(nil).YearBounds()
	assert.False(t, ok)
}

func TestFilterAllFullRange(t *testing.T) {
	table := NewTable([]Record{
		{Title: "a", Category: Movie, YearAdded: intPtr(2019)},
		{Title: "b", Category: TVShow, YearAdded: intPtr(2015)},
		{Title: "c", Category: Movie, YearAdded: intPtr(2021)},
	})
	min, max, _ := table.YearBounds()

	view := Filter(table.All(), SelectAll, min, max)
	assert.Equal(t, titles(table.All().Records()), titles(view.Records()))
}

func TestFilter(t *testing.T) {
	table := loadSample(t)

	movies := Filter(table.All(), Selector(Movie), 2017, 2021)
	assert.Equal(t, []string{"Dick Johnson Is Dead", "My Little Pony"}, titles(movies.Records()))

	shows := Filter(table.All(), Selector(TVShow), 2018, 2021)
	assert.Equal(t, []string{"Blood & Water", "Ganglands"}, titles(shows.Records()))

	// Sankofa has no year_added and never survives a year filter.
	all := Filter(table.All(), SelectAll, 0, 9999)
	assert.Equal(t, 5, all.Len())

	assert.Equal(t, 6, table.Len())
}

func TestFilterInvertedRange(t *testing.T) {
	view := Filter(loadSample(t).All(), SelectAll, 2020, 2015)
	assert.Equal(t, 0, view.Len())
	assert.Empty(t, view.Records())
}

func TestClampRange(t *testing.T) {
	lo, hi := ClampRange(2000, 2030, 2008, 2021)
	assert.Equal(t, 2008, lo)
	assert.Equal(t, 2021, hi)

	lo, hi = ClampRange(2020, 2015, 2008, 2021)
	assert.Equal(t, 2020, lo)
	assert.Equal(t, 2015, hi)
}

func TestParseSelector(t *testing.T) {
	for in, want := range map[string]Selector{"": SelectAll, "all": SelectAll, "movie": Selector(Movie), "TV show": Selector(TVShow)} {
		got, err := ParseSelector(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSelector("podcast")
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	table := loadSample(t)

	got := Search(table.All(), "an", 0)
	// Ganglands (2021), Sankofa (1993); newest release first.
	assert.Equal(t, []string{"Ganglands", "Sankofa"}, titles(got))

	got = Search(table.All(), "DARK", DefaultSearchLimit)
	assert.Equal(t, []string{"Dark"}, titles(got))

	assert.Len(t, Search(table.All(), "a", 2), 2)
	assert.Nil(t, Search(table.All(), "   ", 0))
	assert.Empty(t, Search(table.All(), "zzz", 0))
}

func TestTableIsolatedFromCallers(t *testing.T) {
	year := 2021
	input := []Record{
		{Title: "A", Category: Movie, YearAdded: &year, Genres: []string{"Dramas"}, Countries: []string{"France"}},
		{Title: "B", Category: TVShow, YearAdded: intPtr(2019), Genres: []string{"Docuseries"}, Countries: []string{"Spain"}},
	}
	table := NewTable(input)

	year = 1800
	input[0].Genres[0] = "Input"

	rec := table.At(0)
	*rec.YearAdded = 1900
	rec.Genres[0] = "Mutated"
	table.All().Records()[1].Countries[0] = "Nowhere"
	table.All().Each(func(r Record) { r.Genres[0] = "Each" })
	table.All().At(1).Genres[0] = "ViewAt"

	again := table.At(0)
	assert.Equal(t, 2021, *again.YearAdded)
	assert.Equal(t, []string{"Dramas"}, again.Genres)
	assert.Equal(t, []string{"Spain"}, table.At(1).Countries)
	assert.Equal(t, []string{"Docuseries"}, table.At(1).Genres)

	min, max, ok := table.YearBounds()
	require.True(t, ok)
	assert.Equal(t, 2019, min)
	assert.Equal(t, 2021, max)
}

func TestZeroView(t *testing.T) {
	var v View
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, Filter(v, SelectAll, 2000, 2020).Len())
	assert.Empty(t, Search(v, "x", 0))
}

func intPtr(v int) *int { return &v }
