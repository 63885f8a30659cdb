// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"bytes"
	"sort"
	"strings"
	"text/template"

	"github.com/pdiddy/article-engine/pkg/types"
)

// sectionPromptTmpl is the per-section generation request. The exclusion
// context lists only the labels of already-committed sections, never their
// full text, so prompt size stays bounded however long the article grows.
var sectionPromptTmpl = template.Must(template.New("section").Parse(`Write the "{{.Label}}" section of an article about "{{.Topic}}".

Target length: about {{.TargetWords}} words. Write flowing prose, no heading.
{{- if .Covered}}

The article already covers the following, so do NOT repeat or re-introduce
any of it:
{{- range .Covered}}
- {{.}}
{{- end}}
{{- end}}
{{- if .Entries}}

Ground the section in this research where relevant:
{{- range .Entries}}
Q ({{.Perspective}}): {{.Question}}
A: {{.Answer}}
{{- end}}
{{- end}}

Respond with the section text only.`))

// promptData is the template input for one section request.
type promptData struct {
	Topic       string
	Label       string
	TargetWords int
	Covered     []string
	Entries     []types.ConversationEntry
}

func sectionPrompt(d promptData) string {
	var buf bytes.Buffer
	if err := sectionPromptTmpl.Execute(&buf, d); err != nil {
		// The template only ranges over slices; execution cannot fail on
		// well-formed promptData.
		panic(err)
	}
	return buf.String()
}

// relevantEntries selects up to max conversation entries for grounding a
// section, preferring entries whose text shares vocabulary with the label.
// When nothing matches, the first max entries are used so grounding is
// never silently empty while a knowledge base exists.
func relevantEntries(label string, entries []types.ConversationEntry, max int) []types.ConversationEntry {
	if len(entries) == 0 || max <= 0 {
		return nil
	}

	labelWords := significantWords(label)
	type scored struct {
		idx   int
		score int
	}
	scores := make([]scored, len(entries))
	for i, e := range entries {
		text := strings.ToLower(e.Question + " " + e.Answer)
		n := 0
		for w := range labelWords {
			if strings.Contains(text, w) {
				n++
			}
		}
		scores[i] = scored{idx: i, score: n}
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if len(scores) > max {
		scores = scores[:max]
	}
	// Restore knowledge-base order among the chosen entries.
	sort.Slice(scores, func(i, j int) bool { return scores[i].idx < scores[j].idx })

	selected := make([]types.ConversationEntry, 0, len(scores))
	for _, s := range scores {
		selected = append(selected, entries[s.idx])
	}
	return selected
}

// significantWords returns the lowercased words of s longer than three
// characters, as a set.
func significantWords(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,;:!?\"'()")
		if len(w) > 3 {
			words[w] = true
		}
	}
	return words
}
