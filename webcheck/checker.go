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

// Package webcheck validates technique keywords against the open web.
//
// A phrase the model extracts from a summary is only worth searching the
// attack literature for if the web agrees it names a machine-learning
// technique. The checker searches for the keyword, follows the first few
// usable result links, and accepts the keyword when a linked page matches
// one of the ML relevance patterns.
package webcheck

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"

	"github.com/regsight/devaudit/fetch"
)

// DefaultSearchURL queries the DuckDuckGo HTML endpoint, which serves
// parseable results without JavaScript.
const DefaultSearchURL = "https://html.duckduckgo.com/html/?q=%s"

// DefaultMaxLinks caps how many result links are followed per keyword.
const DefaultMaxLinks = 3

// mlPatterns are the phrases whose presence on a linked page counts as
// evidence the keyword names a machine-learning technique.
var mlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)machine\s*learning`),
	regexp.MustCompile(`(?i)artificial\s*intelligence`),
	regexp.MustCompile(`(?i)deep\s*learning`),
	regexp.MustCompile(`(?i)neural\s*network`),
	regexp.MustCompile(`(?i)classification\s*methods`),
	regexp.MustCompile(`(?i)classifier`),
	regexp.MustCompile(`(?i)computer\s*vision`),
}

// Checker validates keywords against web search results.
// It is safe for concurrent use.
type Checker struct {
	fetcher   *fetch.Client
	searchURL string
	maxLinks  int
	logger    *slog.Logger
}

// CheckerOption is a functional option for configuring a Checker.
type CheckerOption func(*Checker)

// WithSearchURL overrides the search endpoint. The value must contain one
// %s verb for the escaped query. Used in tests.
func WithSearchURL(searchURL string) CheckerOption {
	return func(c *Checker) {
		c.searchURL = searchURL
	}
}

// WithMaxLinks sets how many result links are followed per keyword.
func WithMaxLinks(n int) CheckerOption {
	return func(c *Checker) {
		c.maxLinks = n
	}
}

// NewChecker creates a web checker on top of the given fetcher.
func NewChecker(fetcher *fetch.Client, opts ...CheckerOption) *Checker {
	c := &Checker{
		fetcher:   fetcher,
		searchURL: DefaultSearchURL,
		maxLinks:  DefaultMaxLinks,
		logger:    slog.Default().With("component", "webcheck"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckKeyword searches for the keyword and reports whether any of the first
// result pages mentions a machine-learning relevance pattern. Pages that
// fail to load are skipped; an error is returned only when the search itself
// fails.
func (c *Checker) CheckKeyword(ctx context.Context, keyword string) (bool, error) {
	searchURL := fmt.Sprintf(c.searchURL, url.QueryEscape(keyword))

	res, err := c.fetcher.Get(ctx, searchURL)
	if err != nil {
		return false, fmt.Errorf("web search %q: %w", keyword, err)
	}

	links := extractLinks(string(res.Body))
	if len(links) > c.maxLinks {
		links = links[:c.maxLinks]
	}

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		page, err := c.fetcher.Get(ctx, link)
		if err != nil {
			c.logger.Debug("result page failed", "url", link, "err", err)
			continue
		}

		text, err := fetch.MarkdownFromHTML(string(page.Body))
		if err != nil {
			c.logger.Debug("result page conversion failed", "url", link, "err", err)
			continue
		}

		for _, p := range mlPatterns {
			if p.MatchString(text) {
				c.logger.Debug("keyword validated",
					"keyword", keyword, "url", link, "pattern", p.String())
				return true, nil
			}
		}
	}

	c.logger.Debug("keyword not validated", "keyword", keyword, "links", len(links))
	return false, nil
}
