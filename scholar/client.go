// Copyright 2025 Regsight Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scholar searches academic literature through the Semantic Scholar
// Graph API.
package scholar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/regsight/devaudit/core"
	"github.com/regsight/devaudit/fetch"
)

// DefaultBaseURL is the Semantic Scholar Graph API root.
const DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"

// DefaultLimit is the number of papers requested per search.
const DefaultLimit = 5

// DefaultPacing spaces searches out to roughly the unauthenticated rate
// limit, shared across every goroutine using the client.
const DefaultPacing = 1 * time.Second

// searchFields are the paper fields requested from the API.
const searchFields = "title,abstract,url"

// ErrEmptyQuery is returned when the search query is empty.
var ErrEmptyQuery = errors.New("search query cannot be empty")

// Client searches for papers. It is safe for concurrent use.
type Client struct {
	fetcher     *fetch.Client
	baseURL     string
	limit       int
	maxAttempts int
	baseDelay   time.Duration
	minInterval time.Duration
	logger      *slog.Logger

	mu          sync.Mutex
	nextRequest time.Time
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API root URL. Used in tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithLimit sets the number of papers requested per search.
func WithLimit(limit int) ClientOption {
	return func(c *Client) {
		c.limit = limit
	}
}

// WithRetry configures retry behavior for rate-limited requests.
func WithRetry(maxAttempts int, baseDelay time.Duration) ClientOption {
	return func(c *Client) {
		c.maxAttempts = maxAttempts
		c.baseDelay = baseDelay
	}
}

// WithPacing sets the minimum interval between searches. Zero disables
// pacing.
func WithPacing(interval time.Duration) ClientOption {
	return func(c *Client) {
		c.minInterval = interval
	}
}

// NewClient creates a literature search client on top of the given fetcher.
// Pass an API key through the fetcher via fetch.WithHeader("x-api-key", key);
// unauthenticated access works but is rate-limited aggressively.
func NewClient(fetcher *fetch.Client, opts ...ClientOption) *Client {
	c := &Client{
		fetcher:     fetcher,
		baseURL:     DefaultBaseURL,
		limit:       DefaultLimit,
		maxAttempts: 4,
		baseDelay:   2 * time.Second,
		minInterval: DefaultPacing,
		logger:      slog.Default().With("component", "scholar"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResponse mirrors the relevant part of the API's search result.
type searchResponse struct {
	Total int `json:"total"`
	Data  []struct {
		Title    string `json:"title"`
		Abstract string `json:"abstract"`
		URL      string `json:"url"`
	} `json:"data"`
}

// SearchPapers runs a relevance search and returns up to the configured
// limit of papers. Rate-limited responses (429) are retried with backoff;
// other HTTP errors fail immediately.
func (c *Client) SearchPapers(ctx context.Context, query string) ([]core.Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if err := c.pace(ctx); err != nil {
		return nil, err
	}

	searchURL := fmt.Sprintf("%s/paper/search?query=%s&fields=%s&limit=%d",
		c.baseURL, url.QueryEscape(query), searchFields, c.limit)

	var res *fetch.Result
	var permanent error
	err := fetch.RetryWithBackoff(ctx, func() error {
		r, err := c.fetcher.Get(ctx, searchURL)
		if err != nil {
			var statusErr *fetch.StatusError
			if errors.As(err, &statusErr) && statusErr.Code != http.StatusTooManyRequests {
				// Only rate limiting is worth waiting out
				permanent = err
				return nil
			}
			return err
		}
		res = r
		return nil
	}, c.maxAttempts, c.baseDelay)
	if err == nil {
		err = permanent
	}
	if err != nil {
		return nil, fmt.Errorf("paper search %q: %w", query, err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(res.Body, &parsed); err != nil {
		return nil, fmt.Errorf("decode paper search response: %w", err)
	}

	papers := make([]core.Paper, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		title := strings.TrimSpace(d.Title)
		if title == "" {
			continue
		}
		papers = append(papers, core.Paper{
			Title:    title,
			Abstract: strings.TrimSpace(d.Abstract),
			URL:      strings.TrimSpace(d.URL),
		})
	}

	c.logger.Debug("paper search complete",
		"query", query,
		"total", parsed.Total,
		"returned", len(papers))

	return papers, nil
}

// pace blocks until this client's turn to hit the API. Each caller claims
// the next minInterval-wide slot, so concurrent searches queue up instead
// of bursting.
func (c *Client) pace(ctx context.Context) error {
	if c.minInterval <= 0 {
		return nil
	}

	c.mu.Lock()
	now := time.Now()
	wait := c.nextRequest.Sub(now)
	if wait < 0 {
		wait = 0
	}
	c.nextRequest = now.Add(wait + c.minInterval)
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsSurvey reports whether a paper is a survey or systematic review.
// Surveys catalogue attacks rather than demonstrate them, so the pipeline
// records them as rejected instead of evidence.
func IsSurvey(p core.Paper) bool {
	title := strings.ToLower(p.Title)
	return strings.Contains(title, "survey") ||
		strings.Contains(title, "systematic review") ||
		strings.Contains(title, ": a review") ||
		strings.HasPrefix(title, "a review of")
}
