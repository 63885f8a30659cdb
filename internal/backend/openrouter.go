// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/article-engine/pkg/types"
)

// DefaultBaseURL is the OpenRouter OpenAI-compatible endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

const defaultTimeout = 90 * time.Second

// tokensPerWord approximates the token budget needed per requested word.
// English prose runs roughly 0.75 words per token; 2 tokens per word leaves
// headroom for markup and uneven tokenization.
const tokensPerWord = 2

// OpenRouter implements Generator against OpenRouter's chat completions API
// using the official openai-go SDK.
type OpenRouter struct {
	model   string
	timeout time.Duration
	client  openai.Client
}

// NewOpenRouter builds an OpenRouter backend from config. The API key is
// required; base URL and timeout fall back to defaults.
func NewOpenRouter(cfg types.BackendConfig) (*OpenRouter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter api key missing: set OPENROUTER_API_KEY or .secrets/openrouter-api-key")
	}
	if cfg.Model == "" {
		return nil, errors.New("backend model is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OpenRouter{
		model:   cfg.Model,
		timeout: timeout,
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0), // the composer owns retry policy
		),
	}, nil
}

// Generate sends a single-turn chat completion request and returns the
// generated text. Failures are classified into the backend taxonomy so the
// caller can distinguish transient from permanent errors.
func (o *OpenRouter) Generate(ctx context.Context, prompt string, c Constraints) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if c.TargetWords > 0 {
		params.MaxTokens = openai.Int(int64(c.TargetWords * tokensPerWord))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &Failure{Kind: KindMalformedResponse, Err: errors.New("empty completion")}
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps SDK and transport errors onto the failure taxonomy.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Kind: KindTimeout, Err: err}
	}

	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.StatusCode == http.StatusTooManyRequests:
			return &Failure{Kind: KindRateLimited, Err: err}
		case apierr.StatusCode == http.StatusUnauthorized, apierr.StatusCode == http.StatusForbidden:
			return &Failure{Kind: KindAuthError, Err: err}
		case apierr.StatusCode >= 500:
			// Server-side trouble is treated like a timeout: transient.
			return &Failure{Kind: KindTimeout, Err: err}
		default:
			return &Failure{Kind: KindMalformedResponse, Err: err}
		}
	}

	// Plain transport errors (connection reset, DNS) are transient.
	return &Failure{Kind: KindTimeout, Err: fmt.Errorf("transport: %w", err)}
}
