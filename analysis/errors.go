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


package analysis

import "errors"

var (
	// ErrSubmissionRepositoryRequired is returned when no submission repository is provided.
	ErrSubmissionRepositoryRequired = errors.New("submission repository is required")

	// ErrDocumentRepositoryRequired is returned when no document repository is provided.
	ErrDocumentRepositoryRequired = errors.New("document repository is required")

	// ErrReportRepositoryRequired is returned when no report repository is provided.
	ErrReportRepositoryRequired = errors.New("report repository is required")

	// ErrAIProviderRequired is returned when no AI provider is provided.
	ErrAIProviderRequired = errors.New("ai provider is required")

	// ErrFetcherRequired is returned when no document fetcher is provided.
	ErrFetcherRequired = errors.New("document fetcher is required")

	// ErrNoSubmissions is returned when a batch run is started with no submissions.
	ErrNoSubmissions = errors.New("no submissions to analyze")
)
