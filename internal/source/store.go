// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

const (
	dbFile = "session.db"

	// DefaultDir is the session directory used when none is configured.
	DefaultDir = ".knowledge-agent"
)

// ErrNoRun is returned by LastRun when no analysis has completed yet.
var ErrNoRun = errors.New("no analysis run recorded")

// Store persists a session and its latest analysis run in SQLite so that
// separate CLI invocations share one session.
type Store struct {
	db         *sql.DB
	dir        string
	maxSources int
}

// NewStore opens or creates the session database at dir/session.db and
// creates the schema if it does not exist.
func NewStore(cfg types.SessionConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir, maxSources: cfg.MaxSources}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the session directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			kind TEXT NOT NULL,
			added_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			length TEXT NOT NULL,
			source_count INTEGER NOT NULL,
			completed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			lens TEXT NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (run_id, lens)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Load reads the persisted sources into a new Session. Sources beyond the
// configured bound are kept; the session only refuses further additions.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, kind, added_at FROM sources ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	sess := NewSession(s.maxSources)
	for rows.Next() {
		var src types.Source
		var kind, addedAt string
		if err := rows.Scan(&src.ID, &src.Title, &src.Content, &kind, &addedAt); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		src.Kind = types.SourceKind(kind)
		if t, err := time.Parse(time.RFC3339Nano, addedAt); err == nil {
			src.AddedAt = t
		}
		sess.sources = append(sess.sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}
	return sess, nil
}

// Save rewrites the persisted source list to match sess.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sources`); err != nil {
		return fmt.Errorf("clearing sources: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sources (position, id, title, content, kind, added_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, src := range sess.sources {
		_, err := stmt.ExecContext(ctx,
			i, src.ID, src.Title, src.Content, string(src.Kind),
			src.AddedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("inserting source %s: %w", src.ID, err)
		}
	}

	return tx.Commit()
}

// SaveRun records run as the latest analysis, replacing any earlier run.
func (s *Store) SaveRun(ctx context.Context, run types.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM results`); err != nil {
		return fmt.Errorf("clearing results: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs`); err != nil {
		return fmt.Errorf("clearing runs: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, length, source_count, completed_at) VALUES (?, ?, ?, ?)`,
		run.ID, string(run.Length), run.SourceCount, run.CompletedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, lens, payload) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for lens, res := range run.Results {
		payload, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("marshaling %s result: %w", lens, err)
		}
		if _, err := stmt.ExecContext(ctx, run.ID, string(lens), string(payload)); err != nil {
			return fmt.Errorf("inserting %s result: %w", lens, err)
		}
	}

	return tx.Commit()
}

// LastRun returns the latest recorded run, or ErrNoRun.
func (s *Store) LastRun(ctx context.Context) (*types.Run, error) {
	var run types.Run
	var length, completedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, length, source_count, completed_at FROM runs LIMIT 1`,
	).Scan(&run.ID, &length, &run.SourceCount, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRun
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	run.Length = types.OutputLength(length)
	if t, err := time.Parse(time.RFC3339Nano, completedAt); err == nil {
		run.CompletedAt = t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT lens, payload FROM results WHERE run_id = ?`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	run.Results = types.AnalysisResult{}
	for rows.Next() {
		var lens, payload string
		if err := rows.Scan(&lens, &payload); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		var res types.LensResult
		if err := json.Unmarshal([]byte(payload), &res); err != nil {
			return nil, fmt.Errorf("decoding %s result: %w", lens, err)
		}
		run.Results[types.Lens(lens)] = res
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}
	return &run, nil
}
