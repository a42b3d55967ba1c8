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

// Package catalog imports the regulatory device list and supplemental
// algorithm data into submissions.
//
// The regulatory agency publishes the list of AI/ML-enabled devices as a
// spreadsheet whose column order has shifted between releases, so columns
// are located by header keywords rather than position.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/regsight/devaudit/core"
	"github.com/xuri/excelize/v2"
)

// ErrNoHeaderRow is returned when no row with a submission number column
// could be located.
var ErrNoHeaderRow = errors.New("no header row found in spreadsheet")

// columnMap holds the located column indices, -1 when absent.
type columnMap struct {
	numberCol  int
	deviceCol  int
	companyCol int
	panelCol   int
	dateCol    int
}

// ImportXLSX parses the device list spreadsheet into submissions.
// Rows without a submission number are skipped; unparseable dates are left
// zero rather than failing the row.
func ImportXLSX(reader io.Reader) ([]*core.Submission, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeaderRow
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	headerIdx, cm := findHeader(rows)
	if headerIdx < 0 {
		return nil, ErrNoHeaderRow
	}

	getValue := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	subs := make([]*core.Submission, 0, len(rows))
	for _, row := range rows[headerIdx+1:] {
		number := strings.ToUpper(getValue(row, cm.numberCol))
		if number == "" {
			continue
		}

		subs = append(subs, &core.Submission{
			Number:       number,
			Device:       getValue(row, cm.deviceCol),
			Company:      getValue(row, cm.companyCol),
			Panel:        getValue(row, cm.panelCol),
			DecisionDate: parseDate(getValue(row, cm.dateCol)),
		})
	}

	return subs, nil
}

// findHeader locates the header row and maps columns by keyword.
// The published spreadsheet carries a title block above the real header.
func findHeader(rows [][]string) (int, columnMap) {
	for i, row := range rows {
		cm := mapColumns(row)
		if cm.numberCol >= 0 && cm.deviceCol >= 0 {
			return i, cm
		}
	}
	return -1, columnMap{}
}

// mapColumns locates columns by header keywords.
func mapColumns(headers []string) columnMap {
	cm := columnMap{
		numberCol:  -1,
		deviceCol:  -1,
		companyCol: -1,
		panelCol:   -1,
		dateCol:    -1,
	}

	for i, header := range headers {
		h := strings.ToLower(strings.TrimSpace(header))
		switch {
		case cm.numberCol < 0 && strings.Contains(h, "submission"):
			cm.numberCol = i
		case cm.deviceCol < 0 && strings.Contains(h, "device"):
			cm.deviceCol = i
		case cm.companyCol < 0 && (strings.Contains(h, "company") || strings.Contains(h, "applicant")):
			cm.companyCol = i
		case cm.panelCol < 0 && strings.Contains(h, "panel"):
			cm.panelCol = i
		case cm.dateCol < 0 && strings.Contains(h, "date"):
			cm.dateCol = i
		}
	}

	return cm
}

// parseDate tries the date formats seen across spreadsheet releases.
// Returns the zero time when nothing matches.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	formats := []string{
		"01/02/2006",
		"1/2/2006",
		"2006-01-02",
		"01-02-06",
		"Jan 2, 2006",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
