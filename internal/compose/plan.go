// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"fmt"

	"github.com/pdiddy/article-engine/pkg/types"
)

// Default budget fractions. The remainder after introduction and conclusion
// is split evenly across body sections.
const (
	defaultIntroFraction      = 0.20
	defaultConclusionFraction = 0.15
)

// Planner converts an outline and a word target into an ordered section
// plan. Planning is deterministic: identical inputs yield identical plans.
type Planner struct {
	// IntroFraction is the share of the target given to the introduction.
	IntroFraction float64

	// ConclusionFraction is the share given to the conclusion.
	ConclusionFraction float64
}

// Plan produces the canonical section shape: one introduction, one body
// section per outline top-level entry, one conclusion. Allocations are
// advisory and rounded up to a multiple of 10, so their sum may slightly
// exceed the target.
//
// An outline with no entries still yields one body section synthesized from
// the topic, so the plan is never empty.
func (p Planner) Plan(topic string, outline types.Outline, targetWords int) []types.SectionSpec {
	introFrac := p.IntroFraction
	if introFrac <= 0 {
		introFrac = defaultIntroFraction
	}
	conclFrac := p.ConclusionFraction
	if conclFrac <= 0 {
		conclFrac = defaultConclusionFraction
	}

	bodyLabels := outline.Titles()
	if len(bodyLabels) == 0 {
		bodyLabels = []string{fmt.Sprintf("Overview of %s", topic)}
	}

	introWords := roundUp10(int(float64(targetWords) * introFrac))
	conclWords := roundUp10(int(float64(targetWords) * conclFrac))

	bodyTotal := targetWords - introWords - conclWords
	if bodyTotal < len(bodyLabels)*10 {
		bodyTotal = len(bodyLabels) * 10
	}
	perBody := roundUp10((bodyTotal + len(bodyLabels) - 1) / len(bodyLabels))

	plan := make([]types.SectionSpec, 0, len(bodyLabels)+2)
	plan = append(plan, types.SectionSpec{Index: 0, Label: "Introduction", TargetWords: introWords})
	for i, label := range bodyLabels {
		plan = append(plan, types.SectionSpec{Index: i + 1, Label: label, TargetWords: perBody})
	}
	plan = append(plan, types.SectionSpec{
		Index:       len(bodyLabels) + 1,
		Label:       "Conclusion",
		TargetWords: conclWords,
	})
	return plan
}

func roundUp10(n int) int {
	return (n + 9) / 10 * 10
}
