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
	"fmt"
	"regexp"
	"strings"
)

// DefaultBaseURL is the root of the FDA premarket notification database.
const DefaultBaseURL = "https://www.accessdata.fda.gov"

// summaryLinkPattern matches hrefs pointing at summary documents under
// cdrh_docs on the detail page.
var summaryLinkPattern = regexp.MustCompile(`href="([^"]*cdrh_docs/[^"]*\.pdf)"`)

// detailURL builds the database detail page URL for a submission number.
func detailURL(baseURL, number string) string {
	return fmt.Sprintf("%s/scripts/cdrh/cfdocs/cfPMN/pmn.cfm?ID=%s", baseURL, number)
}

// summaryLinks extracts candidate summary document URLs from detail page HTML.
// Relative links are resolved against the base URL.
func summaryLinks(baseURL, html string) []string {
	matches := summaryLinkPattern.FindAllStringSubmatch(html, -1)
	links := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		link := m[1]
		if strings.HasPrefix(link, "/") {
			link = baseURL + link
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}
	return links
}

// fallbackURLs generates the document locations the database has used over
// the years, derived from the submission number. The directory suffix is the
// two-digit year with any leading zero dropped (K213760 lives under pdf21,
// K043760 under pdf4).
func fallbackURLs(baseURL, number string) []string {
	digits := yearDigits(number)
	if digits == "" {
		return nil
	}

	dir := "pdf" + strings.TrimLeft(digits, "0")
	if dir == "pdf0" {
		dir = "pdf"
	}
	lower := strings.ToLower(number)

	return []string{
		fmt.Sprintf("%s/cdrh_docs/%s/%s.pdf", baseURL, dir, number),
		fmt.Sprintf("%s/cdrh_docs/%s/%s.pdf", baseURL, dir, lower),
		fmt.Sprintf("%s/cdrh_docs/%s/%s_summary.pdf", baseURL, dir, number),
		fmt.Sprintf("%s/cdrh_docs/%s/%sa000.pdf", baseURL, dir, number),
	}
}

// yearDigits returns the first two digits of the numeric part of a
// submission number, or "" when the number has no usable numeric part.
func yearDigits(number string) string {
	i := 0
	for i < len(number) && (number[i] < '0' || number[i] > '9') {
		i++
	}
	if len(number)-i < 2 {
		return ""
	}
	return number[i : i+2]
}

// isPDF reports whether data begins with the PDF magic bytes. The database
// serves an HTML error page with a 200 status for missing documents.
func isPDF(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "%PDF"
}
