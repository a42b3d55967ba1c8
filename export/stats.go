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

package export

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/regsight/devaudit/core"
	"github.com/regsight/devaudit/storage"
)

// PanelCount is the number of catalog devices under one review panel.
type PanelCount struct {
	Panel   string `csv:"Panel"`
	Devices int    `csv:"Devices"`
}

// PanelCounts tallies submissions by review panel, highest count first.
// Submissions without a panel are grouped under "Unknown".
func PanelCounts(subs []*core.Submission) []PanelCount {
	counts := make(map[string]int)
	for _, sub := range subs {
		panel := strings.TrimSpace(sub.Panel)
		if panel == "" {
			panel = "Unknown"
		}
		counts[panel]++
	}

	stats := make([]PanelCount, 0, len(counts))
	for panel, n := range counts {
		stats = append(stats, PanelCount{Panel: panel, Devices: n})
	}
	slices.SortFunc(stats, func(a, b PanelCount) int {
		if a.Devices != b.Devices {
			return b.Devices - a.Devices
		}
		return strings.Compare(a.Panel, b.Panel)
	})
	return stats
}

// ExportStats writes panel counts for the stored catalog to w as CSV.
func ExportStats(ctx context.Context, submissions storage.SubmissionRepository, w io.Writer) error {
	subs, err := submissions.ListSubmissions(ctx)
	if err != nil {
		return err
	}

	stats := PanelCounts(subs)
	return gocsv.Marshal(&stats, w)
}
