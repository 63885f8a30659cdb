// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"strings"

	"github.com/pdiddy/article-engine/pkg/types"
)

// outlinePrompt asks for a numbered table of contents. The response format
// is constrained so ParseOutline can read it back deterministically. When
// headings from an existing reference page are available they are offered
// as hints, never as requirements.
func outlinePrompt(topic string, hints []string) string {
	hintBlock := ""
	if len(hints) > 0 {
		hintBlock = fmt.Sprintf(`

For reference, an encyclopedia organizes this topic under: %s.
Use these as inspiration where they fit; do not copy them verbatim.`,
			strings.Join(hints, ", "))
	}
	return fmt.Sprintf(`Create a table of contents for an encyclopedic article about "%s".

List 3 to 6 numbered top-level sections covering distinct aspects of the
topic. After each section title you may add subsection titles separated by
semicolons, following a colon. Do not include an introduction or conclusion;
those are added separately.%s

Format, one section per line:
1. Section Title: subsection; subsection
2. Section Title

Respond with the list only, no commentary.`, topic, hintBlock)
}

// perspectivesPrompt asks for named research personas conditioned on the
// outline headings.
func perspectivesPrompt(topic string, outline types.Outline, max int) string {
	return fmt.Sprintf(`Propose %d distinct perspectives for researching "%s".

The article will cover these sections: %s.

Each perspective is a persona with a name and a one-sentence focus
describing what it examines about the topic. Make the perspectives
complementary, not overlapping.

Format, one perspective per line:
Name: focus description

Respond with the list only, no commentary.`, max, topic, strings.Join(outline.Titles(), ", "))
}
