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
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/regsight/devaudit/core"
	"github.com/regsight/devaudit/storage"
)

// ErrSubmissionRepositoryRequired is returned when no repository is provided.
var ErrSubmissionRepositoryRequired = errors.New("submission repository is required")

// ErrNoSubmissions is returned when the spreadsheet yields no device rows.
var ErrNoSubmissions = errors.New("no submissions in device list")

// ImportResult summarizes an import run.
type ImportResult struct {
	Total    int // Valid submissions stored
	Skipped  int // Rows dropped by validation
	Enriched int // Submissions matched by the supplemental catalog
}

// Importer loads the device list into the submission store.
type Importer struct {
	submissions storage.SubmissionRepository
	logger      *slog.Logger
}

// NewImporter creates a catalog importer backed by the given repository.
func NewImporter(submissions storage.SubmissionRepository) (*Importer, error) {
	if submissions == nil {
		return nil, ErrSubmissionRepositoryRequired
	}
	return &Importer{
		submissions: submissions,
		logger:      slog.Default().With("component", "catalog"),
	}, nil
}

// Import parses the device list spreadsheet, optionally enriches it with the
// supplemental CSV, and upserts everything into the submission store.
// Pass a nil supplement to import the device list alone.
func (i *Importer) Import(ctx context.Context, deviceList io.Reader, supplement io.Reader) (*ImportResult, error) {
	parsed, err := ImportXLSX(deviceList)
	if err != nil {
		return nil, err
	}

	subs := make([]*core.Submission, 0, len(parsed))
	skipped := 0
	for _, sub := range parsed {
		if err := core.ValidateSubmission(sub); err != nil {
			i.logger.Warn("skipping catalog row", "number", sub.Number, "err", err)
			skipped++
			continue
		}
		subs = append(subs, sub)
	}
	if len(subs) == 0 {
		return nil, ErrNoSubmissions
	}

	result := &ImportResult{Total: len(subs), Skipped: skipped}

	if supplement != nil {
		enriched, err := ApplySupplement(subs, supplement)
		if err != nil {
			return nil, err
		}
		result.Enriched = enriched
	}

	if err := i.submissions.PutSubmissions(ctx, subs...); err != nil {
		return nil, err
	}

	i.logger.Info("imported device list",
		"submissions", result.Total, "skipped", result.Skipped, "enriched", result.Enriched)

	return result, nil
}

// Submissions returns the stored catalog, for listing and batch selection.
func (i *Importer) Submissions(ctx context.Context) ([]*core.Submission, error) {
	return i.submissions.ListSubmissions(ctx)
}
