// Package facts stores and loads the static data for a patch: items,
// champions, runes, and the guide corpus. The sqlite store implements the
// fact-loading collaborator contract; a FactSet it returns is never written
// to again and may be shared read-only across concurrent runs.
package facts

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Fatal-class sentinels for the fact-loading contract.
var (
	// ErrPatchNotFound means the patch id has no data in the store.
	ErrPatchNotFound = errors.New("patch not found")
	// ErrDataCorrupt means stored records failed schema validation.
	ErrDataCorrupt = errors.New("patch data corrupt")
)

// Store is a sqlite-backed fact store.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the fact database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening fact database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		patch TEXT NOT NULL,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		price INTEGER NOT NULL DEFAULT 0,
		stats_json TEXT,
		tags_json TEXT,
		description TEXT,
		PRIMARY KEY (patch, id)
	);

	CREATE TABLE IF NOT EXISTS champions (
		patch TEXT NOT NULL,
		key TEXT NOT NULL,
		name TEXT NOT NULL,
		tags_json TEXT,
		notes TEXT,
		PRIMARY KEY (patch, key)
	);

	CREATE TABLE IF NOT EXISTS runes (
		patch TEXT NOT NULL,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		tree TEXT NOT NULL,
		PRIMARY KEY (patch, id)
	);

	CREATE TABLE IF NOT EXISTS guides (
		patch TEXT NOT NULL,
		id TEXT NOT NULL,
		champion TEXT,
		body TEXT NOT NULL,
		PRIMARY KEY (patch, id)
	);
	CREATE INDEX IF NOT EXISTS idx_guides_champion ON guides(patch, champion);
	`
	_, err := s.db.Exec(schema)
	return err
}
