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


package storage

import (
	"github.com/regsight/devaudit/core"
)

// MarshalSubmission serializes a Submission to bytes.
func MarshalSubmission(s *core.Submission) []byte {
	buf := make([]byte, core.SubmissionMUS.Size(*s))
	core.SubmissionMUS.Marshal(*s, buf)
	return buf
}

// UnmarshalSubmission deserializes a Submission from bytes.
func UnmarshalSubmission(data []byte) (*core.Submission, error) {
	s, _, err := core.SubmissionMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(d *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*d))
	core.DocumentMUS.Marshal(*d, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	d, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// MarshalReport serializes a Report to bytes.
func MarshalReport(r *core.Report) []byte {
	buf := make([]byte, core.ReportMUS.Size(*r))
	core.ReportMUS.Marshal(*r, buf)
	return buf
}

// UnmarshalReport deserializes a Report from bytes.
func UnmarshalReport(data []byte) (*core.Report, error) {
	r, _, err := core.ReportMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
func MarshalCheckpoint(c *core.Checkpoint) []byte {
	buf := make([]byte, core.CheckpointMUS.Size(*c))
	core.CheckpointMUS.Marshal(*c, buf)
	return buf
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	c, _, err := core.CheckpointMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
