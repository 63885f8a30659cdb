// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-engine/internal/httputil"
	"github.com/pdiddy/article-engine/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

const linksJSON = `{"query":{"pages":{"736":{"links":[
	{"ns":0,"title":"Photovoltaics"},
	{"ns":14,"title":"Category:Energy"},
	{"ns":0,"title":"Wind power"},
	{"ns":1,"title":"Talk:Solar power"}
]}}}}`

const sectionsJSON = `{"parse":{"sections":[
	{"line":"History"},
	{"line":""},
	{"line":"Technology"}
]}}`

func newTestClient(ts *httptest.Server) *Client {
	c := NewClient(ts.URL, types.HTTPConfig{UserAgent: "article-engine-test"})
	c.client = ts.Client()
	return c
}

func TestRelatedTopicsFiltersNamespaces(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "article-engine-test", r.Header.Get("User-Agent"))
		w.Write([]byte(linksJSON))
	}))
	defer ts.Close()

	topics, err := newTestClient(ts).RelatedTopics(context.Background(), "Solar power")
	require.NoError(t, err)

	assert.Equal(t, []string{"Photovoltaics", "Wind power"}, topics)
	assert.Contains(t, gotQuery, "titles=Solar_power")
	assert.Contains(t, gotQuery, "prop=links")
	assert.Contains(t, gotQuery, "pllimit=max")
}

func TestRelatedTopicsNoLinks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"query":{"pages":{}}}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).RelatedTopics(context.Background(), "Nonexistent page")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRelatedTopicsServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).RelatedTopics(context.Background(), "Solar power")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRelatedTopicsMalformedPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).RelatedTopics(context.Background(), "Solar power")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRelatedTopicsRecoversAfterRetry(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(linksJSON))
	}))
	defer ts.Close()

	topics, err := newTestClient(ts).RelatedTopics(context.Background(), "Solar power")
	require.NoError(t, err)
	assert.Len(t, topics, 2)
	assert.Equal(t, 2, calls)
}

func TestPageSections(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "action=parse")
		assert.Contains(t, r.URL.RawQuery, "page=Solar_power")
		w.Write([]byte(sectionsJSON))
	}))
	defer ts.Close()

	headings, err := newTestClient(ts).PageSections(context.Background(), "Solar power")
	require.NoError(t, err)
	assert.Equal(t, []string{"History", "Technology"}, headings)
}

func TestPageSectionsMissingPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"error":{"code":"missingtitle"}}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).PageSections(context.Background(), "Nonexistent page")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewClientDefaultEndpoint(t *testing.T) {
	c := NewClient("", types.HTTPConfig{})
	assert.Equal(t, defaultEndpoint, c.endpoint)
}
