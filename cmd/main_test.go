package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cine-lens/catalog"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description,year_added
s1,Movie,Dick Johnson Is Dead,Kirsten Johnson,,United States,2021-09-25,2020,PG-13,90 min,Documentaries,,2021.0
s2,TV Show,Blood & Water,,Ama Qamata,South Africa,2021-09-24,2021,TV-MA,2 Seasons,"International TV Shows, TV Dramas",,2021.0
s3,Movie,Sankofa,Haile Gerima,,"United States, Ghana",2019-09-24,1993,TV-MA,125 min,"Dramas, Independent Movies",,2019.0
`

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDashboardJSON(t *testing.T) {
	path := writeCSV(t, testCSV)

	out, err := run(t, "--data-file", path, "dashboard", "--json", "--from", "2000")
	require.NoError(t, err)

	var d struct {
		Filter struct {
			Type string `json:"type"`
			From int    `json:"from"`
			To   int    `json:"to"`
		} `json:"filter"`
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "All", d.Filter.Type)
	assert.Equal(t, 2019, d.Filter.From)
	assert.Equal(t, 2021, d.Filter.To)
	assert.Equal(t, 3, d.Summary.Total)
}

func TestDashboardText(t *testing.T) {
	path := writeCSV(t, testCSV)

	out, err := run(t, "--data-file", path, "dashboard", "--type", "movie")
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog dashboard: Movie, 2019-2021")
	assert.Contains(t, out, "Documentaries")
}

func TestDashboardBadType(t *testing.T) {
	path := writeCSV(t, testCSV)

	_, err := run(t, "--data-file", path, "dashboard", "--type", "podcast")
	assert.Error(t, err)
}

func TestSearchCommand(t *testing.T) {
	path := writeCSV(t, testCSV)

	out, err := run(t, "--data-file", path, "search", "--from", "2015", "WATER")
	require.NoError(t, err)
	assert.Contains(t, out, "Blood & Water")
	assert.NotContains(t, out, "Sankofa")
}

func TestSchemaErrorIsFatal(t *testing.T) {
	path := writeCSV(t, "title,type\nA,Movie\n")

	_, err := run(t, "--data-file", path, "dashboard")
	require.Error(t, err)

	var schemaErr *catalog.SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestImportThenReadFromDB(t *testing.T) {
	path := writeCSV(t, testCSV)

	_, err := run(t, "--data-file", path, "import")
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	out, err := run(t, "--from-db", "dashboard", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"total": 3`)
}
