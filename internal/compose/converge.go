// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

// Tracker is the convergence bookkeeping for one run: cumulative word
// count, iteration count, and the termination checks derived from them.
// It performs no I/O and holds no references to the backend.
type Tracker struct {
	target        int
	maxIterations int
	total         int
	iterations    int
}

// NewTracker builds a tracker for a word target and an iteration cap.
func NewTracker(target, maxIterations int) *Tracker {
	return &Tracker{target: target, maxIterations: maxIterations}
}

// Update adds a committed section's word count and returns the new total.
func (t *Tracker) Update(wordDelta int) int {
	t.total += wordDelta
	return t.total
}

// RecordIteration counts one generation iteration and returns the count.
func (t *Tracker) RecordIteration() int {
	t.iterations++
	return t.iterations
}

// Total returns the cumulative committed word count.
func (t *Tracker) Total() int { return t.total }

// Iterations returns the number of generation iterations recorded.
func (t *Tracker) Iterations() int { return t.iterations }

// Remaining returns the words still needed to reach the target, never
// negative.
func (t *Tracker) Remaining() int {
	if t.total >= t.target {
		return 0
	}
	return t.target - t.total
}

// WithinTolerance reports whether the total has reached the target.
// Exact equality is never required; overshoot is bounded by the composer's
// allocation discipline rather than rejected here.
func (t *Tracker) WithinTolerance() bool {
	return t.total >= t.target
}

// Exhausted reports whether the iteration cap has been reached.
func (t *Tracker) Exhausted() bool {
	return t.iterations >= t.maxIterations
}

// ShouldExtend reports whether the composer should synthesize an extension
// section: the plan is spent, the target is unmet, and iterations remain.
func (t *Tracker) ShouldExtend(sectionsRemaining int) bool {
	return sectionsRemaining == 0 && !t.WithinTolerance() && !t.Exhausted()
}
