package storage

import (
	"context"

	"github.com/regsight/devaudit/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// SubmissionRepository provides operations for managing catalog submissions.
type SubmissionRepository interface {
	Repository

	// PutSubmissions upserts submissions keyed by submission number.
	// Sets InsertedAt on first write and UpdatedAt on every write.
	PutSubmissions(ctx context.Context, submissions ...*core.Submission) error

	// GetSubmission retrieves a submission by number.
	// Returns ErrNotFound if it doesn't exist.
	GetSubmission(ctx context.Context, number string) (*core.Submission, error)

	// ListSubmissions retrieves all submissions ordered by number.
	ListSubmissions(ctx context.Context) ([]*core.Submission, error)

	// DeleteSubmissions removes submissions by number.
	// Returns ErrNotFound if any doesn't exist.
	DeleteSubmissions(ctx context.Context, numbers ...string) error
}

// DocumentRepository provides operations for managing summary documents.
type DocumentRepository interface {
	Repository

	// PutDocument upserts a document keyed by submission number.
	PutDocument(ctx context.Context, doc *core.Document) error

	// GetDocument retrieves the document for a submission number.
	// Returns ErrNotFound if it doesn't exist.
	GetDocument(ctx context.Context, number string) (*core.Document, error)

	// DeleteDocument removes the document for a submission number.
	// Returns ErrNotFound if it doesn't exist.
	DeleteDocument(ctx context.Context, number string) error
}

// ReportRepository provides operations for managing analysis reports.
type ReportRepository interface {
	Repository

	// PutReport upserts a report keyed by submission number.
	// Generates the content-based ID when it is zero.
	PutReport(ctx context.Context, report *core.Report) error

	// GetReport retrieves the report for a submission number.
	// Returns ErrNotFound if it doesn't exist.
	GetReport(ctx context.Context, number string) (*core.Report, error)

	// ListReports retrieves all reports ordered by submission number.
	ListReports(ctx context.Context) ([]*core.Report, error)

	// DeleteReports removes reports by submission number.
	// Returns ErrNotFound if any doesn't exist.
	DeleteReports(ctx context.Context, numbers ...string) error
}

// CheckpointRepository persists batch progress so interrupted runs resume
// where they left off.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint for a pipeline stage.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a pipeline stage.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, stage string) (*core.Checkpoint, error)

	// ClearCheckpoint removes the checkpoint for a pipeline stage.
	// Clearing a missing checkpoint is not an error.
	ClearCheckpoint(ctx context.Context, stage string) error
}
