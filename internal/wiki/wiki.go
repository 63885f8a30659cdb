// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wiki provides a best-effort Wikipedia lookup used to seed research
// with related topics. Every failure surfaces as ErrUnavailable; callers
// decide how to degrade, never this package.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/article-engine/internal/httputil"
	"github.com/pdiddy/article-engine/pkg/types"
)

// ErrUnavailable is returned whenever the lookup cannot produce results:
// network failure, non-200 status, missing page, or unparseable payload.
var ErrUnavailable = errors.New("knowledge lookup unavailable")

// Lookup fetches related material for a topic. Implementations are
// best-effort; the pipeline never fails because a lookup did.
type Lookup interface {
	// RelatedTopics returns titles of pages linked from the topic's page.
	RelatedTopics(ctx context.Context, topic string) ([]string, error)

	// PageSections returns the topic page's section headings.
	PageSections(ctx context.Context, topic string) ([]string, error)
}

const defaultEndpoint = "https://en.wikipedia.org/w/api.php"

// Client queries the Wikipedia API.
type Client struct {
	endpoint string
	client   *http.Client
	cfg      types.HTTPConfig
}

// NewClient builds a Wikipedia client. An empty endpoint uses the public API.
func NewClient(endpoint string, cfg types.HTTPConfig) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
		cfg:      cfg,
	}
}

// linksResponse is the subset of the query/links payload we read.
type linksResponse struct {
	Query struct {
		Pages map[string]struct {
			Links []struct {
				NS    int    `json:"ns"`
				Title string `json:"title"`
			} `json:"links"`
		} `json:"pages"`
	} `json:"query"`
}

// RelatedTopics fetches article-namespace links from the topic's page.
func (c *Client) RelatedTopics(ctx context.Context, topic string) ([]string, error) {
	params := url.Values{
		"action":  {"query"},
		"format":  {"json"},
		"titles":  {pageTitle(topic)},
		"prop":    {"links"},
		"pllimit": {"max"},
	}

	var payload linksResponse
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	var titles []string
	for _, page := range payload.Query.Pages {
		for _, link := range page.Links {
			// Namespace 0 is article space; skip talk/category/file pages.
			if link.NS == 0 && link.Title != "" {
				titles = append(titles, link.Title)
			}
		}
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("%w: no links for %q", ErrUnavailable, topic)
	}
	return titles, nil
}

// sectionsResponse is the subset of the parse/sections payload we read.
type sectionsResponse struct {
	Parse *struct {
		Sections []struct {
			Line string `json:"line"`
		} `json:"sections"`
	} `json:"parse"`
}

// PageSections fetches the section headings of the topic's page.
func (c *Client) PageSections(ctx context.Context, topic string) ([]string, error) {
	params := url.Values{
		"action": {"parse"},
		"format": {"json"},
		"page":   {pageTitle(topic)},
		"prop":   {"sections"},
	}

	var payload sectionsResponse
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}
	if payload.Parse == nil {
		return nil, fmt.Errorf("%w: no page for %q", ErrUnavailable, topic)
	}

	var headings []string
	for _, s := range payload.Parse.Sections {
		if s.Line != "" {
			headings = append(headings, s.Line)
		}
	}
	return headings, nil
}

// get performs a retried GET against the API and decodes the JSON body.
func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return nil
}

// pageTitle converts a topic string to Wikipedia's underscore title form.
func pageTitle(topic string) string {
	return strings.ReplaceAll(strings.TrimSpace(topic), " ", "_")
}
