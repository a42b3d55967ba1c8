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

import "errors"

var (
	// ErrNoDocument is returned when neither a summary PDF nor a usable
	// detail page could be retrieved for a submission.
	ErrNoDocument = errors.New("no document found for submission")

	// ErrEmptyNumber is returned when the submission number is empty.
	ErrEmptyNumber = errors.New("submission number cannot be empty")
)
