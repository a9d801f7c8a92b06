// Package storage provides SQLite-based attempt history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// History is write-mostly; progress is never restored from it.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultPath is where the CLI keeps its database.
const DefaultPath = "~/.slicer/slicer.db"

// Outcome values stored in the outcome column.
const (
	OutcomeWon       = "won"
	OutcomeLost      = "lost"
	OutcomeCleared   = "cleared"
	OutcomeAbandoned = "abandoned"
)

// Store manages the SQLite database connection for attempt history.
type Store struct {
	db *sql.DB
}

// AttemptRecord is one finished attempt.
type AttemptRecord struct {
	ID        string // UUID, assigned on save when empty
	Level     int
	Mode      string
	Outcome   string
	Reason    string // Violation reason for losses
	Sequence  []string
	Slices    int
	Duration  time.Duration
	Retry     bool
	CreatedAt time.Time
}

// Won reports whether the attempt completed its recipe.
func (r AttemptRecord) Won() bool {
	return r.Outcome == OutcomeWon || r.Outcome == OutcomeCleared
}

// LevelStat aggregates attempts per level.
type LevelStat struct {
	Level    int
	Attempts int
	Wins     int
	Losses   int
	Best     time.Duration // Fastest win, 0 if none
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

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

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
		CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			level INTEGER NOT NULL,
			mode TEXT NOT NULL,
			outcome TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			sequence TEXT NOT NULL,
			slices INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			retry INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_attempts_level ON attempts(level);
		CREATE INDEX IF NOT EXISTS idx_attempts_created ON attempts(created_at DESC);
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

// SaveAttempt records an attempt. A missing ID or timestamp is filled in
// on rec.
func (s *Store) SaveAttempt(rec *AttemptRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO attempts (id, level, mode, outcome, reason, sequence, slices, duration_ms, retry, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Level, rec.Mode, rec.Outcome, rec.Reason,
		strings.Join(rec.Sequence, ","), rec.Slices, rec.Duration.Milliseconds(),
		rec.Retry, rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save attempt: %w", err)
	}
	return nil
}

// RecentAttempts returns the newest attempts first.
func (s *Store) RecentAttempts(limit int) ([]AttemptRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level, mode, outcome, reason, sequence, slices, duration_ms, retry, created_at
		 FROM attempts
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query attempts: %w", err)
	}
	defer rows.Close()

	var records []AttemptRecord
	for rows.Next() {
		var (
			r          AttemptRecord
			seq        string
			durationMs int64
			createdAt  any
		)
		if err := rows.Scan(&r.ID, &r.Level, &r.Mode, &r.Outcome, &r.Reason,
			&seq, &r.Slices, &durationMs, &r.Retry, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if seq != "" {
			r.Sequence = strings.Split(seq, ",")
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// LevelStats returns per-level aggregates ordered by level.
func (s *Store) LevelStats() ([]LevelStat, error) {
	rows, err := s.db.Query(
		`SELECT level,
		        COUNT(*),
		        SUM(CASE WHEN outcome IN (?, ?) THEN 1 ELSE 0 END),
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		        MIN(CASE WHEN outcome IN (?, ?) THEN duration_ms END)
		 FROM attempts
		 GROUP BY level
		 ORDER BY level`,
		OutcomeWon, OutcomeCleared, OutcomeLost, OutcomeWon, OutcomeCleared,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level stats: %w", err)
	}
	defer rows.Close()

	var stats []LevelStat
	for rows.Next() {
		var (
			st   LevelStat
			best sql.NullInt64
		)
		if err := rows.Scan(&st.Level, &st.Attempts, &st.Wins, &st.Losses, &best); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if best.Valid {
			st.Best = time.Duration(best.Int64) * time.Millisecond
		}
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// BestLevel returns the highest level ever won. ok is false when nothing
// has been won yet.
func (s *Store) BestLevel() (level int, ok bool, err error) {
	var best sql.NullInt64
	err = s.db.QueryRow(
		"SELECT MAX(level) FROM attempts WHERE outcome IN (?, ?)",
		OutcomeWon, OutcomeCleared,
	).Scan(&best)
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best level: %w", err)
	}
	if !best.Valid {
		return 0, false, nil
	}
	return int(best.Int64), true, nil
}

// ClearHistory deletes every attempt and returns how many were removed.
func (s *Store) ClearHistory() (int64, error) {
	res, err := s.db.Exec("DELETE FROM attempts")
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}
	return n, nil
}

const timeLayout = "2006-01-02 15:04:05.000"

// parseTime handles both driver-decoded times and stored text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{timeLayout, "2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
