// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "article-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// BackendConfig holds settings for the text-generation backend.
type BackendConfig struct {
	// Model is the model identifier (e.g. "anthropic/claude-3-haiku").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint. Defaults to the OpenRouter API.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Timeout is the per-call request timeout (default 90s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ResearchConfig holds settings for the research stage.
type ResearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRelatedTopics caps the related-topic set kept from the knowledge
	// lookup (default 25).
	MaxRelatedTopics int `json:"max_related_topics" yaml:"max_related_topics"`

	// MaxPerspectives caps the number of perspectives requested (default 5).
	MaxPerspectives int `json:"max_perspectives" yaml:"max_perspectives"`
}

// ConversationConfig holds settings for the conversation stage.
type ConversationConfig struct {
	// Concurrency bounds how many perspectives are interviewed in parallel
	// (default 3), to respect backend rate limits.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// ComposeConfig holds settings for the article composer.
type ComposeConfig struct {
	// TargetWords is the requested article length (default 1000).
	TargetWords int `json:"target_words" yaml:"target_words"`

	// MaxIterations caps the number of generation iterations (default 10).
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// MaxRetries is the retry count for transient backend failures on a
	// single section (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MinSectionWords is the floor below which a generated section is
	// treated as a failed attempt (default 50).
	MinSectionWords int `json:"min_section_words" yaml:"min_section_words"`

	// OverTolerance is the accepted overshoot fraction past the target
	// (default 0.10). Advisory; generation length is never exact.
	OverTolerance float64 `json:"over_tolerance" yaml:"over_tolerance"`
}

// OutputFormat selects the article output format.
type OutputFormat string

const (
	OutputText     OutputFormat = "text"
	OutputMarkdown OutputFormat = "markdown"
	OutputJSON     OutputFormat = "json"
	OutputHTML     OutputFormat = "html"
)

// OutputConfig holds settings for the output layer.
type OutputConfig struct {
	// Dir is the directory for written articles (default "output/articles").
	Dir string `json:"dir" yaml:"dir"`

	// Format selects text, markdown, json, or html.
	Format OutputFormat `json:"format" yaml:"format"`
}

// ArchiveConfig holds settings for the run archive.
type ArchiveConfig struct {
	// Dir is the base directory for the archive database (contains index/).
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for one run.
type PipelineConfig struct {
	Backend      BackendConfig      `json:"backend" yaml:"backend"`
	Research     ResearchConfig     `json:"research" yaml:"research"`
	Conversation ConversationConfig `json:"conversation" yaml:"conversation"`
	Compose      ComposeConfig      `json:"compose" yaml:"compose"`
	Output       OutputConfig       `json:"output" yaml:"output"`
	Archive      ArchiveConfig      `json:"archive" yaml:"archive"`
}
