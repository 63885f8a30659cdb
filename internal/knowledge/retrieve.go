// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/article-engine/pkg/types"
)

// RunSummary is one archived run's metadata.
type RunSummary struct {
	ID               int64               `json:"id" yaml:"id"`
	Topic            string              `json:"topic" yaml:"topic"`
	TargetWords      int                 `json:"target_words" yaml:"target_words"`
	ActualWords      int                 `json:"actual_words" yaml:"actual_words"`
	Iterations       int                 `json:"iterations" yaml:"iterations"`
	PerspectiveCount int                 `json:"perspective_count" yaml:"perspective_count"`
	EntryCount       int                 `json:"entry_count" yaml:"entry_count"`
	Status           types.ArticleStatus `json:"status" yaml:"status"`
	CreatedAt        time.Time           `json:"created_at" yaml:"created_at"`
}

// SearchHit is one full-text match in the archive.
type SearchHit struct {
	RunID   int64  `json:"run_id" yaml:"run_id"`
	Topic   string `json:"topic" yaml:"topic"`
	Kind    string `json:"kind" yaml:"kind"` // "section" or "entry"
	Label   string `json:"label" yaml:"label"`
	Snippet string `json:"snippet" yaml:"snippet"`
}

// Recent returns the most recent runs, newest first. A non-positive limit
// uses the store default.
func (s *Store) Recent(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, target_words, actual_words, iterations,
			perspective_count, entry_count, status, created_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var status, created string
		if err := rows.Scan(&r.ID, &r.Topic, &r.TargetWords, &r.ActualWords,
			&r.Iterations, &r.PerspectiveCount, &r.EntryCount, &status, &created); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Status = types.ArticleStatus(status)
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Search runs an FTS5 query over archived sections and conversation entries.
func (s *Store) Search(ctx context.Context, query string) ([]SearchHit, error) {
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT f.run_id, r.topic, f.kind, f.label,
			snippet(archive_fts, 3, '[', ']', '…', 12)
		FROM archive_fts f
		JOIN runs r ON r.id = f.run_id
		WHERE archive_fts MATCH ?
		ORDER BY rank LIMIT ?`, query, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching archive: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.RunID, &h.Topic, &h.Kind, &h.Label, &h.Snippet); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Article reconstructs an archived article by run ID.
func (s *Store) Article(ctx context.Context, runID int64) (*types.Article, error) {
	var a types.Article
	var status, created string
	err := s.db.QueryRowContext(ctx,
		`SELECT topic, target_words, actual_words, iterations,
			perspective_count, entry_count, status, created_at
		FROM runs WHERE id = ?`, runID).Scan(
		&a.Topic, &a.TargetWords, &a.ActualWords, &a.Iterations,
		&a.PerspectiveCount, &a.EntryCount, &status, &created)
	if err != nil {
		return nil, fmt.Errorf("loading run %d: %w", runID, err)
	}
	a.Status = types.ArticleStatus(status)
	a.CreatedAt, _ = time.Parse(time.RFC3339, created)

	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, label, target_words, actual_words, content
		FROM sections WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading sections for run %d: %w", runID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var sec types.SectionSpec
		if err := rows.Scan(&sec.Index, &sec.Label, &sec.TargetWords, &sec.ActualWords, &sec.Text); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		a.Sections = append(a.Sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	parts := make([]string, len(a.Sections))
	for i, sec := range a.Sections {
		parts[i] = sec.Text
	}
	a.Text = strings.Join(parts, "\n\n")
	return &a, nil
}
