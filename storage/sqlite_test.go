package storage

import (
	"os"
	"path/filepath"
	"testing"

	"cine-lens/catalog"
	"cine-lens/rating"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s := NewSQLiteStorage(t.TempDir())
	require.NoError(t, s.Initialize())
	t.Cleanup(func() { s.Close() })
	return s
}

func testTable() *catalog.Table {
	y2021, y2017 := 2021, 2017
	return catalog.NewTable([]catalog.Record{
		{Title: "Blood & Water", Category: catalog.TVShow, YearAdded: &y2021, ReleaseYear: 2021,
			Rating: "TV-MA", Countries: []string{"South Africa"},
			Genres: []string{"International TV Shows", "TV Dramas"}, Director: catalog.NotAvailable, Cast: "Ama Qamata"},
		{Title: "Sankofa", Category: catalog.Movie, ReleaseYear: 1993, Rating: "TV-MA",
			Countries: []string{"United States", "Ghana"}, Genres: []string{"Dramas"},
			Director: "Haile Gerima", Cast: "Kofi Ghanaba"},
		{Title: "Dark", Category: catalog.TVShow, YearAdded: &y2017, ReleaseYear: 2017, Rating: "TV-MA",
			Countries: []string{"Germany"}, Genres: []string{"Crime TV Shows"},
			Director: "Baran bo Odar", Cast: "Louis Hofmann"},
	})
}

func TestSQLiteStorageInit(t *testing.T) {
	tempDir := t.TempDir()

	s := NewSQLiteStorage(tempDir)
	require.NoError(t, s.Initialize())
	defer s.Close()

	dbPath := filepath.Join(tempDir, DatabaseFile)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatalf("Database file was not created")
	}
}

func TestImportAndLoadCatalog(t *testing.T) {
	s := newTestStorage(t)
	table := testTable()

	require.NoError(t, s.ImportCatalog(table))

	loaded, err := s.LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, table.All().Records(), loaded.All().Records())

	// Importing again replaces the snapshot instead of appending.
	require.NoError(t, s.ImportCatalog(table))
	loaded, err = s.LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, table.Len(), loaded.Len())
}

func TestGetStats(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.ImportCatalog(testTable()))
	require.NoError(t, s.SaveRating("Dark", rating.Record{Rating: "8.7", Votes: "400,000", Runtime: "60 min"}))

	stats, err := s.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats["total"])
	assert.Equal(t, 1, stats["movies"])
	assert.Equal(t, 2, stats["shows"])
	assert.Equal(t, 1, stats["ratings"])
}

func TestRatings(t *testing.T) {
	s := newTestStorage(t)

	_, ok, err := s.GetRating("Dark")
	require.NoError(t, err)
	assert.False(t, ok)

	rec := rating.Record{Rating: "8.7", Votes: "400,000", Runtime: "60 min"}
	require.NoError(t, s.SaveRating("Dark", rec))

	got, ok, err := s.GetRating("Dark")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)

	rec.Votes = "410,000"
	require.NoError(t, s.SaveRating("Dark", rec))
	got, _, err = s.GetRating("Dark")
	require.NoError(t, err)
	assert.Equal(t, "410,000", got.Votes)
}

func TestStorageAsRatingStore(t *testing.T) {
	s := newTestStorage(t)
	calls := 0
	looker := lookerFunc(func(title string) rating.Result {
		calls++
		return rating.Found(rating.Record{Rating: "8.8", Votes: "1", Runtime: "148 min"})
	})

	first := rating.NewCachedLookup(looker, s)
	assert.True(t, first.Lookup("Inception").Found)

	// A new session with an empty memory cache is served from the database.
	second := rating.NewCachedLookup(looker, s)
	res := second.Lookup("Inception")
	assert.True(t, res.Found)
	assert.Equal(t, "8.8", res.Record.Rating)
	assert.Equal(t, 1, calls)
}

type lookerFunc func(string) rating.Result

func (f lookerFunc) Lookup(title string) rating.Result { return f(title) }
