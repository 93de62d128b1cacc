// Package store archives conversation turns to SQLite so sessions
// survive restarts and old sensitive data can be purged on a retention
// schedule.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"majordomo/internal/conversation"
)

const schema = `
CREATE TABLE IF NOT EXISTS turns (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	metadata   TEXT,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id);
CREATE INDEX IF NOT EXISTS idx_turns_created ON turns(created_at);
`

// Store is the conversation archive. A single mutex serializes writes;
// SQLite handles its own durability.
type Store struct {
	mu  sync.Mutex
	db  *sql.DB
	log *zap.Logger
}

// Open opens (creating if needed) the archive database at path.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing archive schema: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTurn appends one turn to the archive under its session.
func (s *Store) SaveTurn(ctx context.Context, sessionID string, turn conversation.Turn) error {
	var metadata []byte
	if len(turn.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(turn.Metadata)
		if err != nil {
			return fmt.Errorf("encoding turn metadata: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (session_id, role, content, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		sessionID, string(turn.Role), turn.Content, string(metadata),
		turn.Timestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("archiving turn: %w", err)
	}
	return nil
}

// SessionTurns loads a session's archived turns in insertion order.
func (s *Store) SessionTurns(ctx context.Context, sessionID string) ([]conversation.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, metadata, created_at FROM turns WHERE session_id = ? ORDER BY id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session turns: %w", err)
	}
	defer rows.Close()

	var turns []conversation.Turn
	for rows.Next() {
		var role, content, createdAt string
		var metadata sql.NullString
		if err := rows.Scan(&role, &content, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}

		turn := conversation.Turn{
			Role:    conversation.Role(role),
			Content: content,
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &turn.Metadata); err != nil {
				return nil, fmt.Errorf("decoding turn metadata: %w", err)
			}
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("decoding turn timestamp %q: %w", createdAt, err)
		}
		turn.Timestamp = ts
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// Sessions returns the distinct archived session IDs, newest first.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id FROM turns GROUP BY session_id ORDER BY MAX(id) DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PurgeOlderThan deletes archived turns older than the retention window
// and returns how many were removed. Called with the privacy settings'
// data_retention_days on startup.
func (s *Store) PurgeOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(time.RFC3339Nano)

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM turns WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging expired turns: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("purged expired turns",
			zap.Int64("count", n),
			zap.Int("retention_days", retentionDays))
	}
	return n, nil
}
