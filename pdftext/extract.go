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


// Package pdftext extracts and cleans text from device summary PDFs.
//
// Summary documents open with cover letters and regulatory boilerplate, so
// extraction skips the first two pages and filters out pagination and header
// lines before the text reaches the analysis pipeline.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// skipCoverPages is the number of leading pages dropped from each document.
// The first two pages of a summary are the decision letter, not the summary.
const skipCoverPages = 2

// minPassageLen drops passages too short to answer anything from.
const minPassageLen = 40

// ErrEmptyDocument is returned when the PDF contains no content.
var ErrEmptyDocument = errors.New("pdf contains no content")

// Passages extracts cleaned text from a PDF, one passage per page.
// The cover pages are skipped and unreadable pages are ignored; an error is
// returned only when the document cannot be opened or yields no text at all.
func Passages(content []byte) ([]string, error) {
	if len(content) == 0 {
		return nil, ErrEmptyDocument
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	passages := make([]string, 0, r.NumPage())
	for i := skipCoverPages + 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable pages happen in scanned summaries; skip them
			continue
		}

		cleaned := CleanPage(pageText)
		if len(cleaned) < minPassageLen {
			continue
		}
		passages = append(passages, cleaned)
	}

	if len(passages) == 0 {
		return nil, ErrEmptyDocument
	}
	return passages, nil
}

// CleanPage normalizes one page of extracted text: boilerplate lines are
// dropped, non-ASCII runes and submission-number tokens are removed, and
// punctuation runs collapse to single spaces.
func CleanPage(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if isBoilerplateLine(line) {
			continue
		}
		kept = append(kept, line)
	}
	return scrubText(strings.Join(kept, "\n"))
}
