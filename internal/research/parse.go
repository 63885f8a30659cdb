// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"regexp"
	"strings"

	"github.com/pdiddy/article-engine/pkg/types"
)

// listMarker matches leading enumeration markers: "1.", "2)", "-", "*".
var listMarker = regexp.MustCompile(`^(?:\d+[.)]|[-*•])\s*`)

// ParseOutline reads a line-oriented table of contents: one section per
// line, optional subsections after a colon separated by semicolons.
// Enumeration markers and surrounding whitespace are stripped. Lines that
// reduce to nothing are skipped.
func ParseOutline(text string) types.Outline {
	var outline types.Outline
	for _, line := range strings.Split(text, "\n") {
		line = listMarker.ReplaceAllString(strings.TrimSpace(line), "")
		if line == "" {
			continue
		}

		title := line
		var subs []string
		if idx := strings.Index(line, ":"); idx >= 0 {
			title = strings.TrimSpace(line[:idx])
			for _, sub := range strings.Split(line[idx+1:], ";") {
				if sub = strings.TrimSpace(sub); sub != "" {
					subs = append(subs, sub)
				}
			}
		}
		if title == "" {
			continue
		}
		outline.Sections = append(outline.Sections, types.OutlineSection{
			Title:       title,
			Subsections: subs,
		})
	}
	return outline
}

// ParsePerspectives reads "Name: focus" lines into perspectives. A line
// without a colon becomes a perspective whose name doubles as its focus.
func ParsePerspectives(text string) []types.Perspective {
	var perspectives []types.Perspective
	for _, line := range strings.Split(text, "\n") {
		line = listMarker.ReplaceAllString(strings.TrimSpace(line), "")
		if line == "" {
			continue
		}

		name, focus := line, line
		if idx := strings.Index(line, ":"); idx >= 0 {
			name = strings.TrimSpace(line[:idx])
			focus = strings.TrimSpace(line[idx+1:])
		}
		if name == "" {
			continue
		}
		if focus == "" {
			focus = name
		}
		perspectives = append(perspectives, types.Perspective{Name: name, Focus: focus})
	}
	return perspectives
}
