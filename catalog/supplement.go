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

package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/regsight/devaudit/core"
)

// supplementRow is one record of the third-party supplemental catalog.
type supplementRow struct {
	Number      string `csv:"submission_number"`
	Algorithm   string `csv:"algorithm"`
	Description string `csv:"description"`
}

// ApplySupplement reads the supplemental CSV and fills KnownAlgo and
// Description on the submissions it matches by number. Returns how many
// submissions were enriched. Supplement rows without a matching submission
// are ignored.
func ApplySupplement(subs []*core.Submission, reader io.Reader) (int, error) {
	var rows []*supplementRow
	if err := gocsv.Unmarshal(reader, &rows); err != nil {
		return 0, fmt.Errorf("failed to parse supplement: %w", err)
	}

	byNumber := make(map[string]*core.Submission, len(subs))
	for _, sub := range subs {
		byNumber[sub.Number] = sub
	}

	matched := 0
	for _, row := range rows {
		number := strings.ToUpper(strings.TrimSpace(row.Number))
		sub, found := byNumber[number]
		if !found {
			continue
		}

		if algo := strings.TrimSpace(row.Algorithm); algo != "" {
			sub.KnownAlgo = algo
		}
		if desc := strings.TrimSpace(row.Description); desc != "" {
			sub.Description = desc
		}
		matched++
	}

	return matched, nil
}
