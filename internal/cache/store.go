package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	_ "modernc.org/sqlite"
)

// Store persists known artist/track tempos in SQLite
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Record is a single cached tempo
type Record struct {
	ID         int64
	Artist     string
	Track      string
	BPM        string
	Source     string
	ObservedAt time.Time
}

const schema = `
	CREATE TABLE IF NOT EXISTS known_bpms (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		artist TEXT NOT NULL,
		track TEXT NOT NULL,
		bpm TEXT NOT NULL,
		source TEXT,
		timestamp INTEGER,
		UNIQUE(artist, track)
	);
`

// Open opens (creating if needed) the cache database at dbPath
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases consistent across calls
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db, now: time.Now}
	if err := s.EnsureInitialized(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// EnsureInitialized creates the known_bpms table if it is missing.
// It is idempotent and cheap enough to call before every operation.
func (s *Store) EnsureInitialized(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Lookup returns the cached BPM for artist/track, ignoring case
func (s *Store) Lookup(ctx context.Context, artist, track string) (string, bool, error) {
	query := `
		SELECT bpm FROM known_bpms
		WHERE LOWER(artist) = LOWER(?) AND LOWER(track) = LOWER(?)
		LIMIT 1
	`

	var bpm string
	err := s.db.QueryRowContext(ctx, query, foldKey(artist), foldKey(track)).Scan(&bpm)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query bpm: %w", err)
	}

	return bpm, true, nil
}

// Get returns the full record for artist/track, or nil if none is cached
func (s *Store) Get(ctx context.Context, artist, track string) (*Record, error) {
	query := `
		SELECT id, artist, track, bpm, COALESCE(source, ''), COALESCE(timestamp, 0)
		FROM known_bpms
		WHERE LOWER(artist) = LOWER(?) AND LOWER(track) = LOWER(?)
		LIMIT 1
	`

	row := s.db.QueryRowContext(ctx, query, foldKey(artist), foldKey(track))
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Upsert stores bpm for artist/track. An existing record for the same
// case-folded key is overwritten; otherwise a new one is inserted.
func (s *Store) Upsert(ctx context.Context, artist, track, bpm, source string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	artistKey := foldKey(artist)
	trackKey := foldKey(track)
	timestamp := s.now().Unix()

	var id int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM known_bpms WHERE LOWER(artist) = LOWER(?) AND LOWER(track) = LOWER(?)",
		artistKey, trackKey,
	).Scan(&id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			"INSERT INTO known_bpms (artist, track, bpm, source, timestamp) VALUES (?, ?, ?, ?, ?)",
			artistKey, trackKey, bpm, source, timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bpm: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to query existing bpm: %w", err)
	default:
		_, err = tx.ExecContext(ctx,
			"UPDATE known_bpms SET bpm = ?, source = ?, timestamp = ? WHERE id = ?",
			bpm, source, timestamp, id,
		)
		if err != nil {
			return fmt.Errorf("failed to update bpm: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// List returns cached records, most recently observed first.
// A limit of zero or less returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT id, artist, track, bpm, COALESCE(source, ''), COALESCE(timestamp, 0)
		FROM known_bpms
		ORDER BY timestamp DESC, id DESC
	`

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// Count returns the number of cached records
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM known_bpms").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var r Record
	var timestampUnix int64

	err := row.Scan(&r.ID, &r.Artist, &r.Track, &r.BPM, &r.Source, &timestampUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	r.ObservedAt = time.Unix(timestampUnix, 0)
	return &r, nil
}

// foldKey lowercases with full Unicode rules; SQLite's LOWER only folds ASCII
func foldKey(s string) string {
	return cases.Lower(language.Und).String(s)
}
