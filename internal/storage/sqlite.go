// Package storage provides persistence for best times and the solve history.
// The SQLite store uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies; KVStore keeps records in the per-user data directory.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-blocka/internal/puzzle"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RecordEntry is one stored best time.
type RecordEntry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// SolveEntry represents a single finished level.
type SolveEntry struct {
	ID        int64
	Level     int // 0-based
	Name      string
	Pieces    int
	Image     string
	Elapsed   time.Duration
	CreatedAt time.Time
}

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	Level      int
	Solves     int
	Best       time.Duration
	Average    time.Duration
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS solves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level INTEGER NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			pieces INTEGER NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			elapsed_ms INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_solves_level ON solves(level, elapsed_ms);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record returns the stored value for key.
func (s *Store) Record(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM records WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot query record: %w", err)
	}
	return value, true, nil
}

// SetRecord stores value under key, replacing any previous value.
func (s *Store) SetRecord(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO records (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save record: %w", err)
	}
	return nil
}

// Records returns every stored record ordered by key.
func (s *Store) Records() ([]RecordEntry, error) {
	rows, err := s.db.Query("SELECT key, value, updated_at FROM records ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query records: %w", err)
	}
	defer rows.Close()

	var entries []RecordEntry
	for rows.Next() {
		var e RecordEntry
		var updatedAt any
		if err := rows.Scan(&e.Key, &e.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// ClearRecords deletes every record and the solve history.
func (s *Store) ClearRecords() error {
	if _, err := s.db.Exec("DELETE FROM records; DELETE FROM solves;"); err != nil {
		return fmt.Errorf("storage: cannot clear records: %w", err)
	}
	return nil
}

// LogSolve appends a finished level to the history.
func (s *Store) LogSolve(solve puzzle.Solve) error {
	_, err := s.SaveSolve(solve)
	return err
}

// SaveSolve appends a finished level to the history.
// Returns the ID of the inserted row.
func (s *Store) SaveSolve(solve puzzle.Solve) (int64, error) {
	at := solve.At
	if at.IsZero() {
		at = time.Now()
	}
	result, err := s.db.Exec(
		"INSERT INTO solves (level, name, pieces, image, elapsed_ms, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		solve.Level, solve.Name, solve.Pieces, solve.Image, solve.Elapsed.Milliseconds(),
		at.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save solve: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentSolves returns the latest solves, newest first.
func (s *Store) RecentSolves(limit int) ([]SolveEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.querySolves(
		`SELECT id, level, name, pieces, image, elapsed_ms, created_at
		 FROM solves ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

// FastestSolves returns the quickest solves of a level.
func (s *Store) FastestSolves(level, limit int) ([]SolveEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.querySolves(
		`SELECT id, level, name, pieces, image, elapsed_ms, created_at
		 FROM solves WHERE level = ? ORDER BY elapsed_ms ASC, id ASC LIMIT ?`, level, limit)
}

func (s *Store) querySolves(query string, args ...any) ([]SolveEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solves: %w", err)
	}
	defer rows.Close()

	var entries []SolveEntry
	for rows.Next() {
		var e SolveEntry
		var elapsedMS int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Level, &e.Name, &e.Pieces, &e.Image, &elapsedMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// AllLevelStats returns statistics for every level that has been solved.
func (s *Store) AllLevelStats() (map[int]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level, COUNT(*), MIN(elapsed_ms), AVG(elapsed_ms), MAX(created_at)
		 FROM solves
		 GROUP BY level`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[int]*LevelStats)
	for rows.Next() {
		var st LevelStats
		var best int64
		var avg float64
		var lastPlayed any
		if err := rows.Scan(&st.Level, &st.Solves, &best, &avg, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.Best = time.Duration(best) * time.Millisecond
		st.Average = time.Duration(avg * float64(time.Millisecond))
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Level] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

const timeLayout = "2006-01-02 15:04:05"

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

var (
	_ puzzle.RecordStore = (*Store)(nil)
	_ puzzle.SolveLogger = (*Store)(nil)
)
