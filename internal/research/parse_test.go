// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"reflect"
	"testing"

	"github.com/pdiddy/article-engine/pkg/types"
)

func TestParseOutline(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []types.OutlineSection
	}{
		{
			name: "numbered with subsections",
			text: "1. History: Early days; Modern era\n2. Impact",
			want: []types.OutlineSection{
				{Title: "History", Subsections: []string{"Early days", "Modern era"}},
				{Title: "Impact"},
			},
		},
		{
			name: "bullet markers",
			text: "- Alpha\n* Beta\n• Gamma",
			want: []types.OutlineSection{{Title: "Alpha"}, {Title: "Beta"}, {Title: "Gamma"}},
		},
		{
			name: "paren enumeration and noise lines",
			text: "1) First\n\n   \n2) Second",
			want: []types.OutlineSection{{Title: "First"}, {Title: "Second"}},
		},
		{
			name: "empty subsections dropped",
			text: "Topic: ; ;  sub only ;",
			want: []types.OutlineSection{{Title: "Topic", Subsections: []string{"sub only"}}},
		},
		{
			name: "blank input",
			text: "   \n\n",
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseOutline(tc.text)
			if !reflect.DeepEqual(got.Sections, tc.want) {
				t.Errorf("ParseOutline() = %+v, want %+v", got.Sections, tc.want)
			}
		})
	}
}

func TestParsePerspectives(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []types.Perspective
	}{
		{
			name: "name colon focus",
			text: "1. Historian: origins\n2. Engineer: mechanics",
			want: []types.Perspective{
				{Name: "Historian", Focus: "origins"},
				{Name: "Engineer", Focus: "mechanics"},
			},
		},
		{
			name: "line without colon",
			text: "General researcher",
			want: []types.Perspective{{Name: "General researcher", Focus: "General researcher"}},
		},
		{
			name: "colon with empty focus",
			text: "Critic:",
			want: []types.Perspective{{Name: "Critic", Focus: "Critic"}},
		},
		{
			name: "blank input",
			text: "\n\n",
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParsePerspectives(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParsePerspectives() = %+v, want %+v", got, tc.want)
			}
		})
	}
}
