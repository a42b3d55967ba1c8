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

// Package export renders stored reports and catalog statistics as CSV.
//
// Multi-valued fields are flattened into single cells: findings are
// numbered with their scores, embedded newlines become " | ", and attack
// search blocks are joined with " || " so a row never spans lines.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/regsight/devaudit/core"
	"github.com/regsight/devaudit/storage"
)

// ErrReportRepositoryRequired is returned when no repository is provided.
var ErrReportRepositoryRequired = errors.New("report repository is required")

// ErrNoReports is returned when the store holds nothing to export.
var ErrNoReports = errors.New("no reports to export")

const dateLayout = "01/02/2006"

// reportRow is the flattened CSV shape of a report.
type reportRow struct {
	SubmissionNumber string `csv:"Submission Number"`
	Device           string `csv:"Device"`
	Company          string `csv:"Company"`
	Category         string `csv:"Category"`
	DateOfApproval   string `csv:"Date of Approval"`
	Algorithms       string `csv:"Level 1 - Algorithms Found"`
	FilteredKeywords string `csv:"Level 2 - Filtered Keywords"`
	InputFormat      string `csv:"Level 4 - Input Format"`
	AltKeywords      string `csv:"Alt Keywords Level 2"`
	SecurityAttacks  string `csv:"Security Attacks Found"`
}

// WriteReports renders reports as CSV rows in the given order.
func WriteReports(w io.Writer, reports []*core.Report) error {
	if len(reports) == 0 {
		return ErrNoReports
	}

	rows := make([]*reportRow, 0, len(reports))
	for _, report := range reports {
		rows = append(rows, newReportRow(report))
	}
	return gocsv.Marshal(&rows, w)
}

// ExportReports writes every stored report to w.
func ExportReports(ctx context.Context, reports storage.ReportRepository, w io.Writer) error {
	if reports == nil {
		return ErrReportRepositoryRequired
	}

	stored, err := reports.ListReports(ctx)
	if err != nil {
		return err
	}
	return WriteReports(w, stored)
}

func newReportRow(report *core.Report) *reportRow {
	date := ""
	if !report.DecisionDate.IsZero() {
		date = report.DecisionDate.Format(dateLayout)
	}

	return &reportRow{
		SubmissionNumber: report.SubmissionNumber,
		Device:           report.Device,
		Company:          report.Company,
		Category:         report.Panel,
		DateOfApproval:   date,
		Algorithms:       formatFindings(report.Algorithms, "No algorithms found"),
		FilteredKeywords: formatFindings(report.Validated, "No filtered keywords found"),
		InputFormat:      formatFindings(report.InputFormats, "No input format found"),
		AltKeywords:      formatAltKeywords(report.AltKeywords),
		SecurityAttacks:  formatAttacks(report.AttackSearches, report.Rejected),
	}
}

// formatFindings numbers findings with their scores, one per logical line.
func formatFindings(findings []core.Finding, emptyMsg string) string {
	if len(findings) == 0 {
		return emptyMsg
	}

	var b strings.Builder
	for i, f := range findings {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s (Score: %.3f)", i+1, f.Text, f.Score)
	}
	return flatten(b.String())
}

func formatAltKeywords(keywords []string) string {
	if len(keywords) == 0 {
		return "No alternative keywords found"
	}

	var b strings.Builder
	for i, kw := range keywords {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, kw)
	}
	return flatten(b.String())
}

// formatAttacks joins one block per search with " || ", followed by a
// rejected-papers appendix so discarded sources stay visible in the output.
func formatAttacks(searches []core.AttackSearch, rejected []core.Paper) string {
	if len(searches) == 0 && len(rejected) == 0 {
		return "No security attacks found"
	}

	blocks := make([]string, 0, len(searches)+1)
	for _, search := range searches {
		lines := []string{search.Query}
		for _, paper := range search.Papers {
			lines = append(lines, formatPaper(paper))
		}
		blocks = append(blocks, flatten(strings.Join(lines, "\n")))
	}

	if len(rejected) > 0 {
		lines := []string{"Rejected Papers:"}
		for _, paper := range rejected {
			lines = append(lines, formatPaper(paper))
		}
		blocks = append(blocks, flatten(strings.Join(lines, "\n")))
	}

	return strings.Join(blocks, " || ")
}

func formatPaper(paper core.Paper) string {
	if paper.URL == "" {
		return paper.Title
	}
	return fmt.Sprintf("%s (%s)", paper.Title, paper.URL)
}

// flatten collapses a multi-line value into a single CSV-safe line.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " | ")
}
