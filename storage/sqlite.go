package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cine-lens/catalog"
	"cine-lens/logging"
	"cine-lens/rating"

	_ "github.com/mattn/go-sqlite3"
)

// DatabaseFile is the SQLite file created inside the data directory.
const DatabaseFile = "cine_lens.db"

type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	dataPath string
}

type StorageInterface interface {
	Initialize() error
	ImportCatalog(table *catalog.Table) error
	LoadCatalog() (*catalog.Table, error)
	GetStats() (map[string]int, error)
	rating.Store
	Close() error
}

var _ StorageInterface = (*SQLiteStorage)(nil)

func NewSQLiteStorage(dataPath string) *SQLiteStorage {
	return &SQLiteStorage{
		dbPath:   filepath.Join(dataPath, DatabaseFile),
		dataPath: dataPath,
	}
}

// Open creates the data directory and opens the database without migrating it.
func (s *SQLiteStorage) Open() error {
	if err := os.MkdirAll(s.dataPath, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

// Initialize opens the database and applies pending migrations.
func (s *SQLiteStorage) Initialize() error {
	if err := s.Open(); err != nil {
		return err
	}

	if err := s.RunMigrations(); err != nil {
		return err
	}

	logging.Info().Str("path", s.dbPath).Msg("SQLite database initialized")
	return nil
}

// ImportCatalog replaces the stored snapshot with the records of table, keeping
// their order.
func (s *SQLiteStorage) ImportCatalog(table *catalog.Table) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM titles`); err != nil {
		return fmt.Errorf("failed to clear titles: %w", err)
	}

	stmt, err := tx.Prepare(`
	INSERT INTO titles (position, title, type, year_added, release_year, rating,
		country, listed_in, director, cast_members)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < table.Len(); i++ {
		r := table.At(i)
		_, err := stmt.Exec(i, r.Title, string(r.Category), r.YearAdded, r.ReleaseYear, r.Rating,
			strings.Join(r.Countries, catalog.ListSeparator),
			strings.Join(r.Genres, catalog.ListSeparator),
			r.Director, r.Cast)
		if err != nil {
			return fmt.Errorf("failed to insert %q: %w", r.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	logging.Info().Int("titles", table.Len()).Msg("Catalog imported")
	return nil
}

// LoadCatalog reads the stored snapshot back in import order.
func (s *SQLiteStorage) LoadCatalog() (*catalog.Table, error) {
	rows, err := s.db.Query(`
	SELECT title, type, year_added, release_year, rating, country, listed_in, director, cast_members
	FROM titles
	ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %w", err)
	}
	defer rows.Close()

	var records []catalog.Record
	for rows.Next() {
		var (
			r         catalog.Record
			category  string
			yearAdded sql.NullInt64
			countries string
			genres    string
		)
		if err := rows.Scan(&r.Title, &category, &yearAdded, &r.ReleaseYear, &r.Rating,
			&countries, &genres, &r.Director, &r.Cast); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		r.Category = catalog.Category(category)
		if yearAdded.Valid {
			y := int(yearAdded.Int64)
			r.YearAdded = &y
		}
		r.Countries = catalog.SplitList(countries)
		r.Genres = catalog.SplitList(genres)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read titles: %w", err)
	}

	return catalog.NewTable(records), nil
}

// GetStats counts stored titles in total and per category.
func (s *SQLiteStorage) GetStats() (map[string]int, error) {
	stats := make(map[string]int)

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM titles").Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}
	stats["total"] = total

	var movies int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM titles WHERE type = ?", string(catalog.Movie)).Scan(&movies); err != nil {
		return nil, fmt.Errorf("failed to get movies count: %w", err)
	}
	stats["movies"] = movies

	var shows int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM titles WHERE type = ?", string(catalog.TVShow)).Scan(&shows); err != nil {
		return nil, fmt.Errorf("failed to get shows count: %w", err)
	}
	stats["shows"] = shows

	var ratings int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM ratings").Scan(&ratings); err != nil {
		return nil, fmt.Errorf("failed to get ratings count: %w", err)
	}
	stats["ratings"] = ratings

	return stats, nil
}

// GetRating returns a previously stored rating record for title.
func (s *SQLiteStorage) GetRating(title string) (rating.Record, bool, error) {
	var rec rating.Record
	err := s.db.QueryRow(`SELECT imdb_rating, imdb_votes, runtime FROM ratings WHERE title = ?`, title).
		Scan(&rec.Rating, &rec.Votes, &rec.Runtime)
	if errors.Is(err, sql.ErrNoRows) {
		return rating.Record{}, false, nil
	}
	if err != nil {
		return rating.Record{}, false, fmt.Errorf("failed to get rating: %w", err)
	}
	return rec, true, nil
}

// SaveRating stores or refreshes the rating record for title.
func (s *SQLiteStorage) SaveRating(title string, rec rating.Record) error {
	_, err := s.db.Exec(`
	INSERT INTO ratings (title, imdb_rating, imdb_votes, runtime, fetched_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(title) DO UPDATE SET
		imdb_rating = excluded.imdb_rating,
		imdb_votes = excluded.imdb_votes,
		runtime = excluded.runtime,
		fetched_at = CURRENT_TIMESTAMP
	`, title, rec.Rating, rec.Votes, rec.Runtime)
	if err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStorage) GetDB() (*sql.DB, error) {
	if s.db == nil {
		if err := s.Open(); err != nil {
			return nil, err
		}
	}
	return s.db, nil
}

// Migration management methods
func (s *SQLiteStorage) GetMigrationManager() *MigrationManager {
	return NewMigrationManager(s.db)
}

func (s *SQLiteStorage) MigrationStatus() error {
	m := s.GetMigrationManager()
	if err := m.Initialize(); err != nil {
		return err
	}
	return m.Status()
}

func (s *SQLiteStorage) GetDatabaseVersion() (int64, error) {
	m := s.GetMigrationManager()
	if err := m.Initialize(); err != nil {
		return 0, err
	}
	return m.Version()
}

func (s *SQLiteStorage) RunMigrations() error {
	m := s.GetMigrationManager()
	if err := m.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	return m.Up()
}

func (s *SQLiteStorage) RollbackMigration() error {
	m := s.GetMigrationManager()
	if err := m.Initialize(); err != nil {
		return err
	}
	return m.Down()
}

func (s *SQLiteStorage) ResetDatabase() error {
	m := s.GetMigrationManager()
	if err := m.Initialize(); err != nil {
		return err
	}
	return m.Reset()
}
