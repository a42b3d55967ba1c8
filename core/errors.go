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

import "errors"

// Domain validation errors
var (
	// ErrInvalidSubmission indicates a Submission failed validation.
	ErrInvalidSubmission = errors.New("invalid submission")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidReport indicates a Report failed validation.
	ErrInvalidReport = errors.New("invalid report")

	// ErrEmptySubmissionNumber indicates the submission number field is empty.
	ErrEmptySubmissionNumber = errors.New("submission number cannot be empty")

	// ErrMalformedSubmissionNumber indicates the submission number does not
	// match the registry numbering scheme.
	ErrMalformedSubmissionNumber = errors.New("malformed submission number")

	// ErrInvalidDocumentKind indicates an invalid DocumentKind value.
	ErrInvalidDocumentKind = errors.New("invalid document kind")

	// ErrEmptySourceURL indicates the document SourceURL field is empty.
	ErrEmptySourceURL = errors.New("source URL cannot be empty")

	// ErrInvalidReportStatus indicates an invalid ReportStatus value.
	ErrInvalidReportStatus = errors.New("invalid report status")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
