// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestCountWords(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"", 0},
		{"   \n\t ", 0},
		{"one", 1},
		{"one two three", 3},
		{"  spaced \n out\twords ", 3},
	}
	for _, tc := range tests {
		if got := CountWords(tc.s); got != tc.want {
			t.Errorf("CountWords(%q) = %d, want %d", tc.s, got, tc.want)
		}
	}
}

func TestOutlineTitles(t *testing.T) {
	o := Outline{Sections: []OutlineSection{
		{Title: "History", Subsections: []string{"Origins"}},
		{Title: "Impact"},
	}}
	titles := o.Titles()
	if len(titles) != 2 || titles[0] != "History" || titles[1] != "Impact" {
		t.Errorf("Titles() = %v", titles)
	}
	if o.IsEmpty() {
		t.Error("IsEmpty() = true for populated outline")
	}
	if !(Outline{}).IsEmpty() {
		t.Error("IsEmpty() = false for zero outline")
	}
}
