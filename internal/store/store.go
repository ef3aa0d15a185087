package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store owns the persisted recording collection.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the recordings database at path. WAL mode
// and a busy timeout are set in the DSN so they apply to every connection.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS recordings (
	  id               TEXT PRIMARY KEY,
	  timestamp_ms     INTEGER NOT NULL,
	  transcript       TEXT NOT NULL,
	  audio_file       TEXT,
	  duration_ms      INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_recordings_timestamp ON recordings(timestamp_ms DESC);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}

// Insert stores a new recording.
func (s *Store) Insert(rec Recording) error {
	audioFile := sql.NullString{}
	if rec.AudioFileName != nil {
		audioFile = sql.NullString{String: *rec.AudioFileName, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO recordings (id, timestamp_ms, transcript, audio_file, duration_ms)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID.String(), rec.Timestamp.UnixMilli(), rec.Transcript, audioFile, rec.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert recording: %w", err)
	}

	return nil
}

// Delete removes a recording by id. Deleting an id that is not present is a
// no-op, not an error, so concurrent deletes stay idempotent.
func (s *Store) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM recordings WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete recording: %w", err)
	}

	return nil
}

// Get returns one recording, or nil if the id is not present.
func (s *Store) Get(id uuid.UUID) (*Recording, error) {
	row := s.db.QueryRow(`
		SELECT id, timestamp_ms, transcript, audio_file, duration_ms
		FROM recordings
		WHERE id = ?
	`, id.String())

	rec, err := scanRecording(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// List returns all recordings, newest first.
func (s *Store) List() ([]Recording, error) {
	return s.query(`
		SELECT id, timestamp_ms, transcript, audio_file, duration_ms
		FROM recordings
		ORDER BY timestamp_ms DESC
	`)
}

// Search returns recordings whose transcript contains the given text,
// newest first. An empty query matches everything.
func (s *Store) Search(text string) ([]Recording, error) {
	return s.query(`
		SELECT id, timestamp_ms, transcript, audio_file, duration_ms
		FROM recordings
		WHERE transcript LIKE '%' || ? || '%'
		ORDER BY timestamp_ms DESC
	`, text)
}

func (s *Store) query(q string, args ...any) ([]Recording, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recordings: %w", err)
	}
	defer rows.Close()

	var out []Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}

	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecording(row rowScanner) (*Recording, error) {
	var (
		idStr       string
		timestampMS int64
		transcript  string
		audioFile   sql.NullString
		durationMS  int64
	)

	if err := row.Scan(&idStr, &timestampMS, &transcript, &audioFile, &durationMS); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan recording: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse recording id %q: %w", idStr, err)
	}

	rec := Recording{
		ID:         id,
		Timestamp:  time.UnixMilli(timestampMS).UTC(),
		Transcript: transcript,
		Duration:   time.Duration(durationMS) * time.Millisecond,
	}
	if audioFile.Valid {
		rec.AudioFileName = &audioFile.String
	}

	return &rec, nil
}
