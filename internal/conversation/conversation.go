// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package conversation builds the question/answer knowledge base: one
// focused exchange per research perspective.
package conversation

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pdiddy/article-engine/internal/backend"
	"github.com/pdiddy/article-engine/pkg/types"
)

// Stage interviews perspectives against a generation backend.
type Stage struct {
	gen backend.Generator
	cfg types.ConversationConfig
}

// NewStage builds a conversation stage.
func NewStage(gen backend.Generator, cfg types.ConversationConfig) *Stage {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 3
	}
	return &Stage{gen: gen, cfg: cfg}
}

// Converse produces one question/answer entry per perspective. Perspectives
// are interviewed concurrently under a bounded semaphore; within one
// perspective the answer call strictly follows the question call. Entries
// are merged in perspective order regardless of completion order.
//
// A failed perspective is a gap, not an error: it is reported to w and
// skipped. The knowledge base is soft context for the composer, so a
// partial base is always acceptable.
//
// Goroutines never touch w; gap warnings are collected per index and
// written after the join, so any writer is safe to pass.
func (s *Stage) Converse(ctx context.Context, topic string, perspectives []types.Perspective, w io.Writer) []types.ConversationEntry {
	results := make([]*types.ConversationEntry, len(perspectives))
	gaps := make([]string, len(perspectives))
	sem := make(chan struct{}, s.cfg.Concurrency)
	var wg sync.WaitGroup

	for i, p := range perspectives {
		wg.Add(1)
		go func(i int, p types.Perspective) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			entry, err := s.interview(ctx, topic, p)
			if err != nil {
				gaps[i] = fmt.Sprintf("warning: conversation gap for %q: %v\n", p.Name, err)
				return
			}
			results[i] = entry
		}(i, p)
	}
	wg.Wait()

	for _, g := range gaps {
		if g != "" {
			fmt.Fprint(w, g)
		}
	}

	// Merge by stable perspective index; gaps are simply absent.
	var entries []types.ConversationEntry
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	fmt.Fprintf(w, "conversations: %d of %d perspectives answered\n", len(entries), len(perspectives))
	return entries
}

// interview runs the two-call exchange for one perspective: question first,
// then the answer conditioned on it.
func (s *Stage) interview(ctx context.Context, topic string, p types.Perspective) (*types.ConversationEntry, error) {
	question, err := s.gen.Generate(ctx, questionPrompt(topic, p), backend.Constraints{TargetWords: 40})
	if err != nil {
		return nil, fmt.Errorf("question: %w", err)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question: empty response")
	}

	answer, err := s.gen.Generate(ctx, answerPrompt(topic, p, question), backend.Constraints{TargetWords: 150})
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, fmt.Errorf("answer: empty response")
	}

	return &types.ConversationEntry{
		Perspective: p.Name,
		Question:    question,
		Answer:      answer,
	}, nil
}

func questionPrompt(topic string, p types.Perspective) string {
	return fmt.Sprintf(`You are researching "%s" from the perspective of %s, whose focus is: %s.

Ask the single most informative question this perspective would want
answered about the topic. Respond with the question only.`, topic, p.Name, p.Focus)
}

func answerPrompt(topic string, p types.Perspective, question string) string {
	return fmt.Sprintf(`Answer the following question about "%s" factually and concisely,
in at most 150 words. The question comes from %s.

Question: %s`, topic, p.Name, question)
}
