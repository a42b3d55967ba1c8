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


package fetch

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// MarkdownFromHTML converts an HTML document to Markdown.
func MarkdownFromHTML(html string) (string, error) {
	return htmltomarkdown.ConvertString(html)
}

// MarkdownPassages converts an HTML document to Markdown and splits it into
// paragraph passages. Blank-line runs delimit passages; passages shorter than
// minLen runes are dropped (navigation fragments, bare headings).
func MarkdownPassages(html string, minLen int) ([]string, error) {
	markdown, err := MarkdownFromHTML(html)
	if err != nil {
		return nil, err
	}

	blocks := strings.Split(markdown, "\n\n")
	passages := make([]string, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if len([]rune(block)) < minLen {
			continue
		}
		passages = append(passages, block)
	}
	return passages, nil
}
