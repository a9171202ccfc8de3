package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store provides SQLite-backed persistence for client state.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database at dbPath and creates tables if they don't exist.
// Use ":memory:" for a throwaway store.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS interviews (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		type TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		questions INTEGER DEFAULT 0,
		corrections INTEGER DEFAULT 0,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		interview_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		tone TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (interview_id) REFERENCES interviews(id)
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// ArchiveInterview stores a finished interview and its turns in one transaction.
// An empty iv.ID is replaced with a new UUID. Returns the interview ID.
func (s *Store) ArchiveInterview(iv Interview, turns []Turn) (string, error) {
	if iv.ID == "" {
		iv.ID = uuid.New().String()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin archive: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO interviews (id, username, type, difficulty, questions, corrections, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		iv.ID, iv.Username, iv.Type, iv.Difficulty, iv.Questions, iv.Corrections, iv.StartedAt, iv.EndedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert interview: %w", err)
	}

	for _, t := range turns {
		ts := t.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		if _, err := tx.Exec(
			`INSERT INTO turns (interview_id, role, content, tone, timestamp) VALUES (?, ?, ?, ?, ?)`,
			iv.ID, t.Role, t.Content, t.Tone, ts,
		); err != nil {
			return "", fmt.Errorf("insert turn: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit archive: %w", err)
	}
	return iv.ID, nil
}

// ListInterviews returns summaries of the most recent interviews.
func (s *Store) ListInterviews(limit int) ([]Summary, error) {
	rows, err := s.db.Query(
		`SELECT i.id, i.type, i.difficulty, i.questions, i.corrections, i.started_at,
		        COALESCE(COUNT(t.id), 0) as turn_count
		 FROM interviews i
		 LEFT JOIN turns t ON i.id = t.interview_id
		 GROUP BY i.id
		 ORDER BY i.started_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query interviews: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Type, &sum.Difficulty, &sum.Questions, &sum.Corrections, &sum.StartedAt, &sum.Turns); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return summaries, nil
}

// GetTurns retrieves all turns of an archived interview in order.
func (s *Store) GetTurns(interviewID string) ([]Turn, error) {
	rows, err := s.db.Query(
		`SELECT id, interview_id, role, content, COALESCE(tone, ''), timestamp
		 FROM turns
		 WHERE interview_id = ?
		 ORDER BY id ASC`,
		interviewID,
	)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.InterviewID, &t.Role, &t.Content, &t.Tone, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return turns, nil
}
