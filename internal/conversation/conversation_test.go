// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/pdiddy/article-engine/internal/backend"
	"github.com/pdiddy/article-engine/pkg/types"
)

// promptGen answers by inspecting the prompt, so concurrent interviews stay
// deterministic regardless of scheduling.
type promptGen struct {
	mu       sync.Mutex
	calls    int
	inFlight int
	maxSeen  int
	fail     func(prompt string) error
}

func (g *promptGen) Generate(_ context.Context, prompt string, _ backend.Constraints) (string, error) {
	g.mu.Lock()
	g.calls++
	g.inFlight++
	if g.inFlight > g.maxSeen {
		g.maxSeen = g.inFlight
	}
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.inFlight--
		g.mu.Unlock()
	}()

	if g.fail != nil {
		if err := g.fail(prompt); err != nil {
			return "", err
		}
	}
	if strings.Contains(prompt, "Question:") {
		return "answer for " + prompt[strings.Index(prompt, "Question:"):], nil
	}
	// Question prompts embed the perspective name; echo it back so the
	// entry is attributable.
	return "question from prompt: " + prompt, nil
}

func perspectives(n int) []types.Perspective {
	ps := make([]types.Perspective, n)
	for i := range ps {
		ps[i] = types.Perspective{
			Name:  fmt.Sprintf("Persona%d", i),
			Focus: fmt.Sprintf("focus %d", i),
		}
	}
	return ps
}

func TestConverseOneEntryPerPerspective(t *testing.T) {
	gen := &promptGen{}
	stage := NewStage(gen, types.ConversationConfig{})
	ps := perspectives(4)

	entries := stage.Converse(context.Background(), "Solar Power", ps, io.Discard)
	if len(entries) != 4 {
		t.Fatalf("len(entries) = %d, want 4", len(entries))
	}
	// Two backend calls per perspective: question, then answer.
	if gen.calls != 8 {
		t.Errorf("backend calls = %d, want 8", gen.calls)
	}
	for i, e := range entries {
		if e.Perspective != ps[i].Name {
			t.Errorf("entries[%d].Perspective = %q, want %q (stable order)", i, e.Perspective, ps[i].Name)
		}
		if e.Question == "" || e.Answer == "" {
			t.Errorf("entries[%d] has empty question or answer", i)
		}
	}
}

func TestConverseGapIsSkippedNotFatal(t *testing.T) {
	gen := &promptGen{fail: func(prompt string) error {
		if strings.Contains(prompt, "Persona1") && !strings.Contains(prompt, "Question:") {
			return errors.New("backend unavailable")
		}
		return nil
	}}
	stage := NewStage(gen, types.ConversationConfig{})
	ps := perspectives(3)

	var progress strings.Builder
	entries := stage.Converse(context.Background(), "Solar Power", ps, &progress)
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2 (gap skipped)", len(entries))
	}
	if entries[0].Perspective != "Persona0" || entries[1].Perspective != "Persona2" {
		t.Errorf("entries out of order around gap: %q, %q", entries[0].Perspective, entries[1].Perspective)
	}
	if !strings.Contains(progress.String(), `conversation gap for "Persona1"`) {
		t.Errorf("progress output missing gap warning: %q", progress.String())
	}
}

func TestConverseAnswerFailureIsGap(t *testing.T) {
	gen := &promptGen{fail: func(prompt string) error {
		if strings.Contains(prompt, "Persona0") && strings.Contains(prompt, "Question:") {
			return errors.New("timeout")
		}
		return nil
	}}
	stage := NewStage(gen, types.ConversationConfig{})

	entries := stage.Converse(context.Background(), "Solar Power", perspectives(2), io.Discard)
	if len(entries) != 1 || entries[0].Perspective != "Persona1" {
		t.Errorf("entries = %+v, want only Persona1", entries)
	}
}

func TestConverseConcurrentGapsReported(t *testing.T) {
	// All four interviews fail at the same instant: a barrier holds every
	// question call until all are in flight, then releases them together.
	// The plain strings.Builder writer is safe because gap warnings are
	// written after the join, in perspective order.
	const n = 4
	var barrier sync.WaitGroup
	barrier.Add(n)
	gen := genFunc(func(_ context.Context, _ string, _ backend.Constraints) (string, error) {
		barrier.Done()
		barrier.Wait()
		return "", errors.New("backend unavailable")
	})
	stage := NewStage(gen, types.ConversationConfig{Concurrency: n})

	var progress strings.Builder
	entries := stage.Converse(context.Background(), "Solar Power", perspectives(n), &progress)
	if len(entries) != 0 {
		t.Fatalf("len(entries) = %d, want 0", len(entries))
	}

	out := progress.String()
	lastIdx := -1
	for i := 0; i < n; i++ {
		idx := strings.Index(out, fmt.Sprintf("conversation gap for %q", fmt.Sprintf("Persona%d", i)))
		if idx < 0 {
			t.Fatalf("missing gap warning for Persona%d in output:\n%s", i, out)
		}
		if idx < lastIdx {
			t.Errorf("gap warnings out of perspective order:\n%s", out)
		}
		lastIdx = idx
	}
	if !strings.Contains(out, "conversations: 0 of 4 perspectives answered") {
		t.Errorf("missing summary line:\n%s", out)
	}
}

type genFunc func(ctx context.Context, prompt string, c backend.Constraints) (string, error)

func (f genFunc) Generate(ctx context.Context, prompt string, c backend.Constraints) (string, error) {
	return f(ctx, prompt, c)
}

func TestConverseBoundedConcurrency(t *testing.T) {
	gen := &promptGen{}
	stage := NewStage(gen, types.ConversationConfig{Concurrency: 2})

	stage.Converse(context.Background(), "Solar Power", perspectives(8), io.Discard)
	if gen.maxSeen > 2 {
		t.Errorf("observed %d concurrent backend calls, limit is 2", gen.maxSeen)
	}
}

func TestConverseNoPerspectives(t *testing.T) {
	stage := NewStage(&promptGen{}, types.ConversationConfig{})
	entries := stage.Converse(context.Background(), "Solar Power", nil, io.Discard)
	if len(entries) != 0 {
		t.Errorf("entries = %+v, want none", entries)
	}
}
