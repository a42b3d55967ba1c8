package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateSubmission(t *testing.T) {
	validDate := time.Now().Add(-24 * time.Hour)
	futureDate := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name    string
		sub     *Submission
		wantErr error
	}{
		{
			name: "valid 510(k) submission",
			sub: &Submission{
				Number:       "K213760",
				Device:       "ChestView AI",
				Company:      "Example Imaging Inc.",
				Panel:        "Radiology",
				DecisionDate: validDate,
			},
			wantErr: nil,
		},
		{
			name: "valid PMA submission",
			sub: &Submission{
				Number:       "P190014",
				DecisionDate: validDate,
			},
			wantErr: nil,
		},
		{
			name: "valid PMA supplement",
			sub: &Submission{
				Number:       "P950009/S026",
				DecisionDate: validDate,
			},
			wantErr: nil,
		},
		{
			name: "valid De Novo submission",
			sub: &Submission{
				Number:       "DEN200038",
				DecisionDate: validDate,
			},
			wantErr: nil,
		},
		{
			name: "valid with zero decision date",
			sub: &Submission{
				Number: "K213760",
			},
			wantErr: nil,
		},
		{
			name:    "nil submission",
			sub:     nil,
			wantErr: ErrInvalidSubmission,
		},
		{
			name:    "empty number",
			sub:     &Submission{},
			wantErr: ErrEmptySubmissionNumber,
		},
		{
			name: "malformed number",
			sub: &Submission{
				Number: "X12345",
			},
			wantErr: ErrMalformedSubmissionNumber,
		},
		{
			name: "number with trailing garbage",
			sub: &Submission{
				Number: "K213760.pdf",
			},
			wantErr: ErrMalformedSubmissionNumber,
		},
		{
			name: "future decision date",
			sub: &Submission{
				Number:       "K213760",
				DecisionDate: futureDate,
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubmission(tt.sub)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSubmission() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSubmission() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid PDF document",
			doc: &Document{
				SubmissionNumber: "K213760",
				SourceURL:        "https://www.accessdata.fda.gov/cdrh_docs/pdf21/K213760.pdf",
				Kind:             DocumentKindPDF,
				Passages:         []string{"some extracted text"},
			},
			wantErr: nil,
		},
		{
			name: "valid HTML fallback with no passages",
			doc: &Document{
				SubmissionNumber: "K213760",
				SourceURL:        "https://www.accessdata.fda.gov/scripts/cdrh/cfdocs/cfPMN/pmn.cfm?ID=K213760",
				Kind:             DocumentKindHTML,
			},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name: "empty submission number",
			doc: &Document{
				SourceURL: "https://example.org/doc.pdf",
				Kind:      DocumentKindPDF,
			},
			wantErr: ErrEmptySubmissionNumber,
		},
		{
			name: "empty source URL",
			doc: &Document{
				SubmissionNumber: "K213760",
				Kind:             DocumentKindPDF,
			},
			wantErr: ErrEmptySourceURL,
		},
		{
			name: "invalid kind",
			doc: &Document{
				SubmissionNumber: "K213760",
				SourceURL:        "https://example.org/doc.pdf",
				Kind:             DocumentKind(99),
			},
			wantErr: ErrInvalidDocumentKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReport(t *testing.T) {
	tests := []struct {
		name    string
		report  *Report
		wantErr error
	}{
		{
			name: "valid complete report",
			report: &Report{
				SubmissionNumber: "K213760",
				Status:           ReportStatusComplete,
			},
			wantErr: nil,
		},
		{
			name: "valid no-document report",
			report: &Report{
				SubmissionNumber: "K213760",
				Status:           ReportStatusNoDocument,
			},
			wantErr: nil,
		},
		{
			name:    "nil report",
			report:  nil,
			wantErr: ErrInvalidReport,
		},
		{
			name: "missing submission number",
			report: &Report{
				Status: ReportStatusComplete,
			},
			wantErr: ErrEmptySubmissionNumber,
		},
		{
			name: "zero status",
			report: &Report{
				SubmissionNumber: "K213760",
			},
			wantErr: ErrInvalidReportStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReport(tt.report)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateReport() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateReport() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
