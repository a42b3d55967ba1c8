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


package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/regsight/devaudit/core"
	"github.com/regsight/devaudit/fetch"
)

// Download is a summary document retrieved for a submission.
type Download struct {
	// SourceURL is the URL the document was retrieved from.
	SourceURL string

	// Kind distinguishes a summary PDF from a detail-page HTML fallback.
	Kind core.DocumentKind

	// Data is the raw document bytes.
	Data []byte
}

// Client retrieves summary documents from the premarket notification database.
type Client struct {
	fetcher     *fetch.Client
	baseURL     string
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the database root URL. Used in tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithRetry configures retry behavior for document requests.
func WithRetry(maxAttempts int, baseDelay time.Duration) ClientOption {
	return func(c *Client) {
		c.maxAttempts = maxAttempts
		c.baseDelay = baseDelay
	}
}

// NewClient creates a registry client on top of the given fetcher.
func NewClient(fetcher *fetch.Client, opts ...ClientOption) *Client {
	c := &Client{
		fetcher:     fetcher,
		baseURL:     DefaultBaseURL,
		maxAttempts: 3,
		baseDelay:   2 * time.Second,
		logger:      slog.Default().With("component", "registry"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DetailURL returns the detail page URL for a submission number.
func (c *Client) DetailURL(number string) string {
	return detailURL(c.baseURL, number)
}

// FetchSummary retrieves the summary document for a submission number.
//
// It fetches the detail page, tries every summary link found there, then the
// generated fallback locations. Responses that don't start with the PDF magic
// bytes are discarded; the database serves HTML error pages with a 200
// status. When no PDF can be found but the detail page loaded, the page
// itself is returned as an HTML document. ErrNoDocument is returned only when
// nothing usable was retrieved.
func (c *Client) FetchSummary(ctx context.Context, number string) (*Download, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, ErrEmptyNumber
	}

	detailPage, detailErr := c.get(ctx, c.DetailURL(number))
	if detailErr != nil {
		c.logger.Warn("detail page fetch failed", "submission", number, "err", detailErr)
	}

	var candidates []string
	if detailErr == nil {
		candidates = summaryLinks(c.baseURL, string(detailPage.Body))
	}
	candidates = append(candidates, fallbackURLs(c.baseURL, number)...)

	for _, url := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := c.get(ctx, url)
		if err != nil {
			c.logger.Debug("summary candidate failed", "submission", number, "url", url, "err", err)
			continue
		}
		if !isPDF(res.Body) {
			c.logger.Debug("summary candidate is not a PDF", "submission", number, "url", url)
			continue
		}

		c.logger.Info("retrieved summary document", "submission", number, "url", url, "bytes", len(res.Body))
		return &Download{
			SourceURL: url,
			Kind:      core.DocumentKindPDF,
			Data:      res.Body,
		}, nil
	}

	// No PDF anywhere. Keep the detail page so later stages have something
	// to work with.
	if detailErr == nil && len(detailPage.Body) > 0 {
		c.logger.Info("no summary PDF, keeping detail page", "submission", number)
		return &Download{
			SourceURL: c.DetailURL(number),
			Kind:      core.DocumentKindHTML,
			Data:      detailPage.Body,
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNoDocument, number)
}

// get fetches a URL with retry. Non-200 statuses and oversized bodies are
// not retried; the database answers missing documents quickly and
// consistently.
func (c *Client) get(ctx context.Context, url string) (*fetch.Result, error) {
	var res *fetch.Result
	var permanent error
	err := fetch.RetryWithBackoff(ctx, func() error {
		r, err := c.fetcher.Get(ctx, url)
		if err != nil {
			if errors.Is(err, fetch.ErrUnexpectedStatus) || errors.Is(err, fetch.ErrBodyTooLarge) {
				permanent = err
				return nil
			}
			return err
		}
		res = r
		return nil
	}, c.maxAttempts, c.baseDelay)
	if err != nil {
		return nil, err
	}
	if permanent != nil {
		return nil, permanent
	}
	return res, nil
}
