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


package core

import (
	"fmt"
	"regexp"
	"time"
)

// submissionNumberPattern matches 510(k), PMA and De Novo numbers as they
// appear in the registry catalog: a K/P/DEN prefix followed by digits, with
// an optional PMA supplement suffix like "/S026".
var submissionNumberPattern = regexp.MustCompile(`^(K|P|DEN)\d{6,}(/S\d+)?$`)

// ValidateSubmission validates a Submission according to domain rules.
//
// Validation rules:
//   - Number must not be empty and must match the registry numbering scheme
//   - DecisionDate must not be in the future
//
// NOT validated (may be absent in sparse catalog rows):
//   - Device, Company, Panel (exported as "Unknown" placeholders)
//   - KnownAlgo, Description (supplement fields)
func ValidateSubmission(sub *Submission) error {
	if sub == nil {
		return fmt.Errorf("%w: submission is nil", ErrInvalidSubmission)
	}

	if sub.Number == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSubmission, ErrEmptySubmissionNumber)
	}

	if !submissionNumberPattern.MatchString(sub.Number) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidSubmission, ErrMalformedSubmissionNumber, sub.Number)
	}

	if !sub.DecisionDate.IsZero() && !IsValidTimestamp(sub.DecisionDate) {
		return fmt.Errorf("%w: %w", ErrInvalidSubmission, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - SubmissionNumber must not be empty
//   - SourceURL must not be empty
//   - Kind must be valid (PDF or HTML)
//
// NOT validated:
//   - Passages (may legitimately be empty for image-only PDFs)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.SubmissionNumber == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptySubmissionNumber)
	}

	if doc.SourceURL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptySourceURL)
	}

	if err := ValidateDocumentKind(doc.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateReport validates a Report according to domain rules.
//
// Validation rules:
//   - SubmissionNumber must not be empty
//   - Status must be valid
//
// NOT validated (populated stage by stage):
//   - Finding slices, AltKeywords, AttackSearches, Rejected
//   - ID (derived from the submission number at store time)
func ValidateReport(report *Report) error {
	if report == nil {
		return fmt.Errorf("%w: report is nil", ErrInvalidReport)
	}

	if report.SubmissionNumber == "" {
		return fmt.Errorf("%w: %w", ErrInvalidReport, ErrEmptySubmissionNumber)
	}

	if err := ValidateReportStatus(report.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}

	return nil
}

// ValidateDocumentKind validates that a DocumentKind has a valid value.
func ValidateDocumentKind(kind DocumentKind) error {
	if kind != DocumentKindPDF && kind != DocumentKindHTML {
		return fmt.Errorf("%w: value %d", ErrInvalidDocumentKind, kind)
	}
	return nil
}

// ValidateReportStatus validates that a ReportStatus has a valid value.
func ValidateReportStatus(status ReportStatus) error {
	switch status {
	case ReportStatusComplete, ReportStatusNoDocument, ReportStatusPartial:
		return nil
	}
	return fmt.Errorf("%w: value %d", ErrInvalidReportStatus, status)
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
