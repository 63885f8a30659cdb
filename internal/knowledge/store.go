// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge persists finished runs — articles, their sections, and
// the Q&A knowledge base behind them — in a SQLite archive with full-text
// search. The archive is write-once per run; a run in progress never
// touches it.
package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/article-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "articles.db"
)

// Store manages the run archive database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the archive at dir/index/articles.db and
// ensures the schema exists.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.Dir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dbDir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
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

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT NOT NULL,
			target_words INTEGER NOT NULL,
			actual_words INTEGER NOT NULL,
			iterations INTEGER NOT NULL,
			perspective_count INTEGER NOT NULL,
			entry_count INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			idx INTEGER NOT NULL,
			label TEXT NOT NULL,
			target_words INTEGER NOT NULL,
			actual_words INTEGER NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (run_id, idx)
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			perspective TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS archive_fts USING fts5(
			run_id UNINDEXED,
			kind UNINDEXED,
			label,
			body
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing %.30q: %w", stmt, err)
		}
	}
	return nil
}

// Save archives a finalized article and its conversation entries, returning
// the new run ID. The whole run is written in one transaction.
func (s *Store) Save(ctx context.Context, article *types.Article, entries []types.ConversationEntry) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (topic, target_words, actual_words, iterations,
			perspective_count, entry_count, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		article.Topic, article.TargetWords, article.ActualWords, article.Iterations,
		article.PerspectiveCount, article.EntryCount, string(article.Status),
		article.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, sec := range article.Sections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sections (run_id, idx, label, target_words, actual_words, content)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, sec.Index, sec.Label, sec.TargetWords, sec.ActualWords, sec.Text); err != nil {
			return 0, fmt.Errorf("inserting section %d: %w", sec.Index, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO archive_fts (run_id, kind, label, body) VALUES (?, 'section', ?, ?)`,
			runID, sec.Label, sec.Text); err != nil {
			return 0, fmt.Errorf("indexing section %d: %w", sec.Index, err)
		}
	}

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entries (run_id, perspective, question, answer) VALUES (?, ?, ?, ?)`,
			runID, e.Perspective, e.Question, e.Answer); err != nil {
			return 0, fmt.Errorf("inserting entry for %q: %w", e.Perspective, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO archive_fts (run_id, kind, label, body) VALUES (?, 'entry', ?, ?)`,
			runID, e.Perspective, e.Question+" "+e.Answer); err != nil {
			return 0, fmt.Errorf("indexing entry for %q: %w", e.Perspective, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}
