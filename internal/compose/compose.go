// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose is the article-composition controller: it drives
// research, conversation, and planning, then generates sections one by one
// until the word target is met or the iteration cap is hit.
package compose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/article-engine/internal/backend"
	"github.com/pdiddy/article-engine/internal/research"
	"github.com/pdiddy/article-engine/pkg/types"
)

// Researcher produces the research scaffolding for a topic.
type Researcher interface {
	Research(ctx context.Context, topic string, w io.Writer) (research.Result, error)
}

// Converser builds the question/answer knowledge base for perspectives.
type Converser interface {
	Converse(ctx context.Context, topic string, perspectives []types.Perspective, w io.Writer) []types.ConversationEntry
}

// phase is the controller state. Transitions are strictly forward; the
// generating phase loops over section slots.
type phase int

const (
	phaseInit phase = iota
	phaseResearched
	phaseConversed
	phasePlanned
	phaseGenerating
	phaseConverged
	phaseExhausted
	phaseFailed
)

func (p phase) String() string {
	switch p {
	case phaseInit:
		return "init"
	case phaseResearched:
		return "researched"
	case phaseConversed:
		return "conversed"
	case phasePlanned:
		return "planned"
	case phaseGenerating:
		return "generating"
	case phaseConverged:
		return "converged"
	case phaseExhausted:
		return "exhausted"
	default:
		return "failed"
	}
}

const maxGroundingEntries = 3

// deepeningSuffix labels an extension section that revisits an already
// covered heading.
const deepeningSuffix = ": A Closer Look"

// backoffBase controls the base duration for retry backoff. Tests override
// this to avoid real sleeps.
var backoffBase = time.Second

// errTooShort marks a generation yield below the minimum section floor.
var errTooShort = errors.New("generated section below minimum word floor")

// ErrAllSectionsFailed is returned when every planned section failed
// permanently, leaving nothing to publish.
var ErrAllSectionsFailed = errors.New("every planned section failed generation")

// Composer owns one run of the article state machine. It is not reusable
// across runs; each invocation of Run allocates its own article, knowledge
// base, and counters.
type Composer struct {
	gen        backend.Generator
	researcher Researcher
	converser  Converser
	planner    Planner
	cfg        types.ComposeConfig
}

// New builds a composer. Zero-valued config fields fall back to defaults:
// 1000 target words, 10 iterations, 2 retries, 50-word section floor.
func New(gen backend.Generator, researcher Researcher, converser Converser, cfg types.ComposeConfig) *Composer {
	if cfg.TargetWords <= 0 {
		cfg.TargetWords = 1000
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 10
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.MinSectionWords <= 0 {
		cfg.MinSectionWords = 50
	}
	if cfg.OverTolerance <= 0 {
		cfg.OverTolerance = 0.10
	}
	return &Composer{gen: gen, researcher: researcher, converser: converser, cfg: cfg}
}

// Run executes the full pipeline for topic and returns the finalized
// article together with the conversation knowledge base gathered for it.
// Only a research failure, invalid input, or the permanent failure of every
// section returns an error; everything else degrades to a partial but valid
// article with explanatory status.
//
// Cancellation is honored between sections, never mid-call: an aborted run
// finalizes whatever sections were already committed.
func (c *Composer) Run(ctx context.Context, topic string, w io.Writer) (*types.Article, []types.ConversationEntry, error) {
	state := phaseInit
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, nil, errors.New("topic must not be empty")
	}

	res, err := c.researcher.Research(ctx, topic, w)
	if err != nil {
		return nil, nil, fmt.Errorf("composing %q: %w", topic, err)
	}
	state = phaseResearched

	entries := c.converser.Converse(ctx, topic, res.Perspectives, w)
	state = phaseConversed

	queue := c.planner.Plan(topic, res.Outline, c.cfg.TargetWords)
	state = phasePlanned
	fmt.Fprintf(w, "plan: %d sections, %d word target\n", len(queue), c.cfg.TargetWords)

	tracker := NewTracker(c.cfg.TargetWords, c.cfg.MaxIterations)
	var (
		committed []types.SectionSpec
		covered   []string
		nextIndex = queue[len(queue)-1].Index + 1
		aborted   bool
	)

	state = phaseGenerating
	for i := 0; i < len(queue); i++ {
		if ctx.Err() != nil {
			aborted = true
			break
		}
		if tracker.Exhausted() {
			break
		}

		spec := queue[i]
		iter := tracker.RecordIteration()

		// Cap the request near the remaining need so a converging run
		// cannot badly overshoot the target.
		reqWords := spec.TargetWords
		if remaining := tracker.Remaining(); remaining < reqWords {
			reqWords = remaining
			if floor := 2 * c.cfg.MinSectionWords; reqWords < floor {
				reqWords = floor
			}
		}

		prompt := sectionPrompt(promptData{
			Topic:       topic,
			Label:       spec.Label,
			TargetWords: reqWords,
			Covered:     covered,
			Entries:     relevantEntries(spec.Label, entries, maxGroundingEntries),
		})

		text, err := c.generateWithRetry(ctx, prompt, reqWords)
		if err != nil {
			if ctx.Err() != nil {
				aborted = true
				break
			}
			// The slot is dropped, never regenerated later; the gap is the
			// record of the failure.
			fmt.Fprintf(w, "warning: section %d %q dropped: %v\n", spec.Index, spec.Label, err)
		} else {
			text = strings.TrimSpace(text)
			c.warnOnOverlap(w, committed, spec.Label, text)

			spec.Text = text
			spec.ActualWords = types.CountWords(text)
			committed = append(committed, spec)
			covered = append(covered, spec.Label)
			total := tracker.Update(spec.ActualWords)
			fmt.Fprintf(w, "section %d %q: %d words (total %d/%d, iteration %d/%d)\n",
				spec.Index, spec.Label, spec.ActualWords, total, c.cfg.TargetWords, iter, c.cfg.MaxIterations)

			if tracker.WithinTolerance() {
				state = phaseConverged
				break
			}
		}

		if tracker.ShouldExtend(len(queue) - i - 1) {
			ext := c.extensionSpec(res.Outline, covered, nextIndex, tracker.Remaining())
			nextIndex++
			queue = append(queue, ext)
			fmt.Fprintf(w, "extending plan: section %d %q\n", ext.Index, ext.Label)
		}
	}

	if len(committed) == 0 {
		return nil, nil, ErrAllSectionsFailed
	}

	article := &types.Article{
		Topic:            topic,
		Sections:         committed,
		Text:             joinSections(committed),
		TargetWords:      c.cfg.TargetWords,
		ActualWords:      tracker.Total(),
		Iterations:       tracker.Iterations(),
		PerspectiveCount: len(res.Perspectives),
		EntryCount:       len(entries),
		CreatedAt:        time.Now(),
	}
	switch {
	case state == phaseConverged:
		article.Status = types.StatusConverged
		if bound := int(float64(c.cfg.TargetWords) * (1 + c.cfg.OverTolerance)); article.ActualWords > bound {
			fmt.Fprintf(w, "warning: %d words overshoots the %d-word bound\n", article.ActualWords, bound)
		}
	case aborted:
		article.Status = types.StatusAborted
		state = phaseExhausted
	default:
		article.Status = types.StatusExhausted
		state = phaseExhausted
	}
	fmt.Fprintf(w, "run %s: %d words in %d sections after %d iterations\n",
		state, article.ActualWords, len(article.Sections), article.Iterations)
	return article, entries, nil
}

// generateWithRetry issues one section request, retrying transient failures
// and too-short yields with exponential backoff. Permanent failures return
// immediately.
func (c *Composer) generateWithRetry(ctx context.Context, prompt string, targetWords int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := c.gen.Generate(ctx, prompt, backend.Constraints{TargetWords: targetWords})
		if err == nil {
			if types.CountWords(text) >= c.cfg.MinSectionWords {
				return text, nil
			}
			lastErr = errTooShort
			continue
		}
		lastErr = err
		if !backend.IsTransient(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("after %d attempts: %w", c.cfg.MaxRetries+1, lastErr)
}

// warnOnOverlap reports committed sections whose 5-gram overlap with the
// new text crosses the repetition threshold. The section is still
// committed; the warning is for the operator.
func (c *Composer) warnOnOverlap(w io.Writer, committed []types.SectionSpec, label, text string) {
	for _, prev := range committed {
		if ratio := ngramOverlap(prev.Text, text); ratio > overlapWarnThreshold {
			fmt.Fprintf(w, "warning: %q overlaps %q (%.0f%% shared 5-grams)\n", label, prev.Label, ratio*100)
		}
	}
}

// extensionSpec synthesizes one additional section when the plan is spent
// below target: the first outline subsection not yet covered, or a
// deepening of the last covered label.
func (c *Composer) extensionSpec(outline types.Outline, covered []string, index, remaining int) types.SectionSpec {
	coveredSet := make(map[string]bool, len(covered))
	for _, label := range covered {
		coveredSet[strings.ToLower(label)] = true
	}

	label := ""
	for _, sec := range outline.Sections {
		for _, sub := range sec.Subsections {
			if !coveredSet[strings.ToLower(sub)] {
				label = sub
				break
			}
		}
		if label != "" {
			break
		}
	}
	if label == "" {
		last := "the topic"
		if len(covered) > 0 {
			// Strip a prior deepening suffix so repeated extensions on the
			// same run do not compound it.
			last = strings.TrimSuffix(covered[len(covered)-1], deepeningSuffix)
		}
		label = last + deepeningSuffix
	}

	target := remaining
	if floor := 2 * c.cfg.MinSectionWords; target < floor {
		target = floor
	}
	return types.SectionSpec{Index: index, Label: label, TargetWords: target}
}

func joinSections(sections []types.SectionSpec) string {
	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = s.Text
	}
	return strings.Join(parts, "\n\n")
}
