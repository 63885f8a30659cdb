// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the article-engine pipeline.
package types

import (
	"strings"
	"time"
)

// Perspective is a named viewpoint used to diversify research angles on a topic.
type Perspective struct {
	// Name is a short label for the viewpoint (e.g. "Economist").
	Name string `json:"name" yaml:"name"`

	// Focus describes what this perspective cares about when examining the topic.
	Focus string `json:"focus" yaml:"focus"`
}

// ConversationEntry is one question/answer exchange scoped to a perspective.
// Entries are immutable once created; the composer only reads them.
type ConversationEntry struct {
	// Perspective is the name of the perspective that produced this exchange.
	Perspective string `json:"perspective" yaml:"perspective"`

	// Question is the perspective's focused question about the topic.
	Question string `json:"question" yaml:"question"`

	// Answer is the synthesized answer to the question.
	Answer string `json:"answer" yaml:"answer"`
}

// OutlineSection is one top-level entry in an article outline.
type OutlineSection struct {
	// Title is the section heading.
	Title string `json:"title" yaml:"title"`

	// Subsections lists optional nested headings under this section.
	Subsections []string `json:"subsections,omitempty" yaml:"subsections,omitempty"`
}

// Outline is the hierarchical list of section labels for an article.
// It is created once by the research stage and read-only afterwards.
type Outline struct {
	Sections []OutlineSection `json:"sections" yaml:"sections"`
}

// Titles returns the top-level section titles in order.
func (o Outline) Titles() []string {
	titles := make([]string, 0, len(o.Sections))
	for _, s := range o.Sections {
		titles = append(titles, s.Title)
	}
	return titles
}

// IsEmpty reports whether the outline has no sections.
func (o Outline) IsEmpty() bool {
	return len(o.Sections) == 0
}

// SectionSpec is one planned unit of article content. The planner fills
// Index, Label, and TargetWords; the composer fills ActualWords and Text
// exactly once when the section is committed.
type SectionSpec struct {
	// Index is the 0-based emission order of the section. Committed sections
	// keep their planned index, so a dropped section leaves a gap rather
	// than renumbering its successors.
	Index int `json:"index" yaml:"index"`

	// Label is the section heading.
	Label string `json:"label" yaml:"label"`

	// TargetWords is the advisory word allocation for this section.
	TargetWords int `json:"target_words" yaml:"target_words"`

	// ActualWords is the realized word count of the generated text.
	ActualWords int `json:"actual_words" yaml:"actual_words"`

	// Text is the generated section body.
	Text string `json:"text" yaml:"text"`
}

// ArticleStatus is the terminal completion status of a run.
type ArticleStatus string

const (
	// StatusConverged means the cumulative word count reached the target
	// within tolerance.
	StatusConverged ArticleStatus = "converged"

	// StatusExhausted means the iteration cap was hit before the target was
	// reached. The article is partial but valid (target-not-reached).
	StatusExhausted ArticleStatus = "exhausted"

	// StatusAborted means cancellation was requested between sections;
	// already-committed sections are preserved.
	StatusAborted ArticleStatus = "aborted"
)

// Article is the finalized result of a composition run: the ordered committed
// sections plus run metadata. It is immutable once the composer terminates.
type Article struct {
	// Topic is the user-supplied subject.
	Topic string `json:"topic" yaml:"topic"`

	// Sections lists the committed sections in index order.
	Sections []SectionSpec `json:"sections" yaml:"sections"`

	// Text is the concatenated body of all committed sections.
	Text string `json:"text" yaml:"text"`

	// TargetWords is the requested word count.
	TargetWords int `json:"target_words" yaml:"target_words"`

	// ActualWords is the realized total word count, always the sum of the
	// per-section actual counts.
	ActualWords int `json:"actual_words" yaml:"actual_words"`

	// Iterations is the number of generation iterations performed,
	// including retried and dropped sections.
	Iterations int `json:"iterations" yaml:"iterations"`

	// PerspectiveCount is the number of research perspectives used.
	PerspectiveCount int `json:"perspective_count" yaml:"perspective_count"`

	// EntryCount is the number of conversation entries gathered.
	EntryCount int `json:"entry_count" yaml:"entry_count"`

	// Status records how the run terminated.
	Status ArticleStatus `json:"status" yaml:"status"`

	// CreatedAt is when the run finished.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// CountWords returns the number of whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
