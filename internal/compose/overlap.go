// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import "strings"

const overlapGramSize = 5

// overlapWarnThreshold is the pairwise 5-gram overlap above which two
// sections are considered repetitive.
const overlapWarnThreshold = 0.15

// ngramOverlap returns the fraction of shared word 5-grams between a and b,
// relative to the smaller gram set. Texts too short to form a 5-gram
// overlap by 0.
func ngramOverlap(a, b string) float64 {
	gramsA := ngrams(a, overlapGramSize)
	gramsB := ngrams(b, overlapGramSize)
	if len(gramsA) == 0 || len(gramsB) == 0 {
		return 0
	}
	if len(gramsB) < len(gramsA) {
		gramsA, gramsB = gramsB, gramsA
	}
	shared := 0
	for g := range gramsA {
		if gramsB[g] {
			shared++
		}
	}
	return float64(shared) / float64(len(gramsA))
}

func ngrams(text string, n int) map[string]bool {
	words := strings.Fields(strings.ToLower(text))
	if len(words) < n {
		return nil
	}
	grams := make(map[string]bool, len(words)-n+1)
	for i := 0; i+n <= len(words); i++ {
		grams[strings.Join(words[i:i+n], " ")] = true
	}
	return grams
}
