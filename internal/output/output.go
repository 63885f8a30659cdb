// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output renders finalized articles to disk as text, Markdown,
// JSON, or HTML, with a YAML metadata sidecar per run.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/article-engine/pkg/types"
)

// nonSlug matches characters stripped when slugging a topic into a filename.
var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Write renders the article in the configured format into cfg.Dir and
// writes a <name>.meta.yaml sidecar with the run metadata. It returns the
// article file path.
func Write(article *types.Article, cfg types.OutputConfig) (string, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s", Slug(article.Topic), article.CreatedAt.Format("20060102-150405"))

	body, ext, err := render(article, cfg.Format)
	if err != nil {
		return "", err
	}

	path := filepath.Join(cfg.Dir, name+ext)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("writing article: %w", err)
	}

	meta, err := yaml.Marshal(metadata(article))
	if err != nil {
		return "", fmt.Errorf("marshaling metadata: %w", err)
	}
	metaPath := filepath.Join(cfg.Dir, name+".meta.yaml")
	if err := os.WriteFile(metaPath, meta, 0o644); err != nil {
		return "", fmt.Errorf("writing metadata: %w", err)
	}

	return path, nil
}

func render(article *types.Article, format types.OutputFormat) ([]byte, string, error) {
	switch format {
	case types.OutputText, "":
		return []byte(Text(article)), ".txt", nil
	case types.OutputMarkdown:
		return []byte(Markdown(article)), ".md", nil
	case types.OutputJSON:
		data, err := json.MarshalIndent(article, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("marshaling article: %w", err)
		}
		return append(data, '\n'), ".json", nil
	case types.OutputHTML:
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(Markdown(article)), &buf); err != nil {
			return nil, "", fmt.Errorf("rendering html: %w", err)
		}
		return buf.Bytes(), ".html", nil
	default:
		return nil, "", fmt.Errorf("unknown output format %q", format)
	}
}

// Text renders the article as plain text: title, then sections separated by
// blank lines.
func Text(article *types.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", article.Topic)
	for i, sec := range article.Sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(sec.Text)
	}
	b.WriteString("\n")
	return b.String()
}

// Markdown renders the article with a top-level title and one second-level
// heading per section.
func Markdown(article *types.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", article.Topic)
	for _, sec := range article.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", sec.Label, sec.Text)
	}
	return b.String()
}

// Slug converts a topic into a lowercase hyphenated filename stem.
func Slug(topic string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(topic), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "article"
	}
	return s
}

// runMeta is the YAML sidecar payload.
type runMeta struct {
	Topic            string              `yaml:"topic"`
	Status           types.ArticleStatus `yaml:"status"`
	TargetWords      int                 `yaml:"target_words"`
	ActualWords      int                 `yaml:"actual_words"`
	Iterations       int                 `yaml:"iterations"`
	SectionCount     int                 `yaml:"section_count"`
	PerspectiveCount int                 `yaml:"perspective_count"`
	EntryCount       int                 `yaml:"entry_count"`
	CreatedAt        time.Time           `yaml:"created_at"`
	Sections         []sectionMeta       `yaml:"sections"`
}

type sectionMeta struct {
	Index       int    `yaml:"index"`
	Label       string `yaml:"label"`
	TargetWords int    `yaml:"target_words"`
	ActualWords int    `yaml:"actual_words"`
}

func metadata(article *types.Article) runMeta {
	m := runMeta{
		Topic:            article.Topic,
		Status:           article.Status,
		TargetWords:      article.TargetWords,
		ActualWords:      article.ActualWords,
		Iterations:       article.Iterations,
		SectionCount:     len(article.Sections),
		PerspectiveCount: article.PerspectiveCount,
		EntryCount:       article.EntryCount,
		CreatedAt:        article.CreatedAt,
	}
	for _, sec := range article.Sections {
		m.Sections = append(m.Sections, sectionMeta{
			Index:       sec.Index,
			Label:       sec.Label,
			TargetWords: sec.TargetWords,
			ActualWords: sec.ActualWords,
		})
	}
	return m
}
