// Package completions keeps a persistent log of sessions the watcher saw go
// quiet, so "recently completed" survives restarts.
package completions

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"claudelens/internal/watcher"
)

// DBFile is the database file name inside the config directory.
const DBFile = "completions.db"

// DefaultRecentLimit caps Recent when the caller passes 0.
const DefaultRecentLimit = 20

// Completion is one recorded session-completed event.
type Completion struct {
	ID          string    `json:"id" yaml:"id"`
	SessionID   string    `json:"sessionId" yaml:"sessionId"`
	CompletedAt time.Time `json:"completedAt" yaml:"completedAt"`
}

// Store handles SQLite persistence for completion events
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the SQLite database at dbPath
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create completions directory")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open completions database")
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}

	return &Store{db: db, path: dbPath}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS completions (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			completed_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_completed_at ON completions(completed_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a completion of sessionID at the given instant
func (s *Store) Record(sessionID string, at time.Time) (Completion, error) {
	c := Completion{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		CompletedAt: at.Truncate(time.Millisecond),
	}
	_, err := s.db.Exec(`
		INSERT INTO completions (id, session_id, completed_at)
		VALUES (?, ?, ?)
	`, c.ID, c.SessionID, c.CompletedAt.UnixMilli())
	if err != nil {
		return Completion{}, errors.Wrapf(err, "record completion of %s", sessionID)
	}
	return c, nil
}

// Recent returns the newest completions first, at most limit of them
func (s *Store) Recent(limit int) ([]Completion, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := s.db.Query(`
		SELECT id, session_id, completed_at
		FROM completions
		ORDER BY completed_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query completions")
	}
	defer rows.Close()

	completions := make([]Completion, 0)
	for rows.Next() {
		var c Completion
		var millis int64
		if err := rows.Scan(&c.ID, &c.SessionID, &millis); err != nil {
			return nil, errors.Wrap(err, "scan completion")
		}
		c.CompletedAt = time.UnixMilli(millis)
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// =============================================================================
// EMITTER WRAPPER
// =============================================================================

// Recording wraps next so every session-completed event is also stored.
// Storage failures are logged and never block delivery.
func (s *Store) Recording(next watcher.Emitter, now func() time.Time) watcher.Emitter {
	if now == nil {
		now = time.Now
	}
	return watcher.EmitterFunc(func(event string, payload any) {
		if event == watcher.EventSessionCompleted {
			if sessionID, ok := payload.(string); ok {
				if _, err := s.Record(sessionID, now()); err != nil {
					log.Warn().Err(err).Str("session", sessionID).Msg("failed to record completion")
				}
			}
		}
		next.Emit(event, payload)
	})
}
