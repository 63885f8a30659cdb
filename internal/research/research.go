// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research produces the knowledge scaffolding for an article: a
// related-topic set, a table-of-contents outline, and a set of named
// perspectives for the conversation stage.
package research

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pdiddy/article-engine/internal/backend"
	"github.com/pdiddy/article-engine/internal/wiki"
	"github.com/pdiddy/article-engine/pkg/types"
)

// Failure is a fatal research error: no usable outline or perspectives
// could be produced, so no article can be written.
type Failure struct {
	Op  string // "outline" or "perspectives"
	Err error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("research failed (%s): %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Result holds the research stage output. All fields are read-only for the
// rest of the pipeline.
type Result struct {
	// RelatedTopics is the best-effort related-topic set. Empty when the
	// knowledge lookup was unavailable.
	RelatedTopics []string `json:"related_topics" yaml:"related_topics"`

	// Outline is the table-of-contents outline for the article.
	Outline types.Outline `json:"outline" yaml:"outline"`

	// Perspectives lists the research personas in generation order.
	Perspectives []types.Perspective `json:"perspectives" yaml:"perspectives"`
}

// Stage runs research for a topic against a generation backend and an
// optional knowledge lookup.
type Stage struct {
	gen    backend.Generator
	lookup wiki.Lookup
	cfg    types.ResearchConfig
}

// NewStage builds a research stage. The lookup may be nil, in which case
// the related-topic set is always empty.
func NewStage(gen backend.Generator, lookup wiki.Lookup, cfg types.ResearchConfig) *Stage {
	if cfg.MaxRelatedTopics <= 0 {
		cfg.MaxRelatedTopics = 25
	}
	if cfg.MaxPerspectives <= 0 {
		cfg.MaxPerspectives = 5
	}
	return &Stage{gen: gen, lookup: lookup, cfg: cfg}
}

// Research produces related topics, an outline, and perspectives for topic.
//
// The related-topic lookup and outline generation have no ordering
// dependency and run concurrently. A lookup failure degrades to an empty
// related-topic set; a backend failure on outline or perspective generation
// is fatal and surfaces as *Failure. Perspective generation waits for the
// outline, since its prompt references the outline headings.
func (s *Stage) Research(ctx context.Context, topic string, w io.Writer) (Result, error) {
	// The lookup goroutine never touches w; its progress note travels with
	// the result and is printed after the join.
	related := make(chan lookupResult, 1)
	go func() {
		related <- s.relatedTopics(ctx, topic)
	}()

	outline, err := s.generateOutline(ctx, topic, s.outlineHints(ctx, topic))
	if err != nil {
		// Drain the lookup before surfacing the failure.
		<-related
		return Result{}, &Failure{Op: "outline", Err: err}
	}
	fmt.Fprintf(w, "outline: %d sections\n", len(outline.Sections))

	perspectives, err := s.generatePerspectives(ctx, topic, outline)
	if err != nil {
		<-related
		return Result{}, &Failure{Op: "perspectives", Err: err}
	}
	fmt.Fprintf(w, "perspectives: %d generated\n", len(perspectives))

	lr := <-related
	if lr.note != "" {
		fmt.Fprint(w, lr.note)
	}

	return Result{
		RelatedTopics: lr.topics,
		Outline:       outline,
		Perspectives:  perspectives,
	}, nil
}

// lookupResult carries the best-effort lookup outcome plus the progress
// line to print for it.
type lookupResult struct {
	topics []string
	note   string
}

// relatedTopics runs the best-effort knowledge lookup. Unavailability is
// swallowed here, by contract: the pipeline continues with an empty set.
func (s *Stage) relatedTopics(ctx context.Context, topic string) lookupResult {
	if s.lookup == nil {
		return lookupResult{}
	}
	topics, err := s.lookup.RelatedTopics(ctx, topic)
	if err != nil {
		return lookupResult{note: fmt.Sprintf("warning: related-topic lookup unavailable: %v\n", err)}
	}
	if len(topics) > s.cfg.MaxRelatedTopics {
		topics = topics[:s.cfg.MaxRelatedTopics]
	}
	return lookupResult{
		topics: topics,
		note:   fmt.Sprintf("related topics: %d found\n", len(topics)),
	}
}

// outlineHints returns the topic page's section headings when the lookup
// has them. Best-effort: any failure yields no hints.
func (s *Stage) outlineHints(ctx context.Context, topic string) []string {
	if s.lookup == nil {
		return nil
	}
	headings, err := s.lookup.PageSections(ctx, topic)
	if err != nil {
		return nil
	}
	return headings
}

func (s *Stage) generateOutline(ctx context.Context, topic string, hints []string) (types.Outline, error) {
	text, err := s.gen.Generate(ctx, outlinePrompt(topic, hints), backend.Constraints{TargetWords: 150})
	if err != nil {
		return types.Outline{}, err
	}
	outline := ParseOutline(text)
	if outline.IsEmpty() {
		return types.Outline{}, errors.New("backend returned no parseable outline entries")
	}
	return outline, nil
}

func (s *Stage) generatePerspectives(ctx context.Context, topic string, outline types.Outline) ([]types.Perspective, error) {
	text, err := s.gen.Generate(ctx, perspectivesPrompt(topic, outline, s.cfg.MaxPerspectives), backend.Constraints{TargetWords: 150})
	if err != nil {
		return nil, err
	}
	perspectives := ParsePerspectives(text)
	if len(perspectives) == 0 {
		return nil, errors.New("backend returned no parseable perspectives")
	}
	if len(perspectives) > s.cfg.MaxPerspectives {
		perspectives = perspectives[:s.cfg.MaxPerspectives]
	}
	return perspectives, nil
}
