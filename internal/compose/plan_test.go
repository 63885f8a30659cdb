// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"reflect"
	"testing"

	"github.com/pdiddy/article-engine/pkg/types"
)

func threeBodyOutline() types.Outline {
	return types.Outline{Sections: []types.OutlineSection{
		{Title: "History"},
		{Title: "Technology"},
		{Title: "Impact"},
	}}
}

func TestPlanCanonicalShape(t *testing.T) {
	plan := Planner{}.Plan("Sustainable Energy", threeBodyOutline(), 800)

	if len(plan) != 5 {
		t.Fatalf("len(plan) = %d, want 5 (intro + 3 body + conclusion)", len(plan))
	}

	wantLabels := []string{"Introduction", "History", "Technology", "Impact", "Conclusion"}
	wantWords := []int{160, 180, 180, 180, 120}
	sum := 0
	for i, spec := range plan {
		if spec.Index != i {
			t.Errorf("plan[%d].Index = %d, want %d", i, spec.Index, i)
		}
		if spec.Label != wantLabels[i] {
			t.Errorf("plan[%d].Label = %q, want %q", i, spec.Label, wantLabels[i])
		}
		if spec.TargetWords != wantWords[i] {
			t.Errorf("plan[%d].TargetWords = %d, want %d", i, spec.TargetWords, wantWords[i])
		}
		sum += spec.TargetWords
	}
	// Rounding may push the sum slightly past the target, never under.
	if sum < 800 || sum > 880 {
		t.Errorf("allocation sum = %d, want within [800, 880]", sum)
	}
}

func TestPlanIdempotent(t *testing.T) {
	outline := threeBodyOutline()
	first := Planner{}.Plan("Quantum Computing", outline, 1000)
	second := Planner{}.Plan("Quantum Computing", outline, 1000)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("plan not idempotent:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestPlanEmptyOutline(t *testing.T) {
	plan := Planner{}.Plan("Blockchain", types.Outline{}, 600)

	if len(plan) != 3 {
		t.Fatalf("len(plan) = %d, want 3 (intro + synthesized body + conclusion)", len(plan))
	}
	if plan[1].Label != "Overview of Blockchain" {
		t.Errorf("synthesized body label = %q", plan[1].Label)
	}
}

func TestPlanCustomFractions(t *testing.T) {
	p := Planner{IntroFraction: 0.10, ConclusionFraction: 0.10}
	plan := p.Plan("AI", threeBodyOutline(), 1000)

	if plan[0].TargetWords != 100 {
		t.Errorf("intro allocation = %d, want 100", plan[0].TargetWords)
	}
	if plan[len(plan)-1].TargetWords != 100 {
		t.Errorf("conclusion allocation = %d, want 100", plan[len(plan)-1].TargetWords)
	}
}

func TestRoundUp10(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 0}, {1, 10}, {10, 10}, {11, 20}, {174, 180},
	}
	for _, tt := range tests {
		if got := roundUp10(tt.in); got != tt.want {
			t.Errorf("roundUp10(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
