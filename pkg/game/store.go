package game

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SessionStore indexes finished game sessions so the replay tool can
// list them without scanning record files.
type SessionStore struct {
	db *sql.DB
}

// SessionRecord is one finished game session
type SessionRecord struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"sessionId"`
	Boundary   string    `json:"boundary"`
	Ticks      int       `json:"ticks"`
	FinalLen   int       `json:"finalLength"`
	RecordFile string    `json:"recordFile"`
	StartedAt  time.Time `json:"startedAt"`
	EndedAt    time.Time `json:"endedAt"`
}

// OpenSessionStore opens (creating if needed) the sqlite session index.
func OpenSessionStore(path string) (*SessionStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT,
		boundary TEXT,
		ticks INTEGER,
		final_length INTEGER,
		record_file TEXT,
		started_at DATETIME,
		ended_at DATETIME
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	return &SessionStore{db: db}, nil
}

// SaveSession writes one finished session row
func (s *SessionStore) SaveSession(rec SessionRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (session_id, boundary, ticks, final_length, record_file, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Boundary, rec.Ticks, rec.FinalLen, rec.RecordFile, rec.StartedAt, rec.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ListSessions returns the most recent sessions, newest first
func (s *SessionStore) ListSessions(limit int) ([]SessionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, boundary, ticks, final_length, record_file, started_at, ended_at
		 FROM sessions ORDER BY ended_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Boundary, &rec.Ticks,
			&rec.FinalLen, &rec.RecordFile, &rec.StartedAt, &rec.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database
func (s *SessionStore) Close() error {
	return s.db.Close()
}
