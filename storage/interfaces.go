package storage

import (
	"context"

	"github.com/docucore/docucore/core"
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

// JobRepository provides operations for managing pipeline jobs.
// Job and stage-result records are append-oriented: a StageResult for a
// given (job, stage) pair is written exactly once, and attempts are only
// ever appended.
type JobRepository interface {
	Repository

	// AddJob persists a newly created job.
	// Returns ErrDuplicateKey if the job id already exists.
	AddJob(ctx context.Context, job *core.Job) error

	// GetJob retrieves a job by id, including its recorded stage results.
	// Returns ErrNotFound if the job doesn't exist.
	GetJob(ctx context.Context, id string) (*core.Job, error)

	// UpdateJob persists the job's status, progress, and completion time.
	// Returns ErrNotFound if the job doesn't exist and core.ErrTerminalJob
	// when the stored record is already terminal.
	UpdateJob(ctx context.Context, job *core.Job) error

	// RecordStageResult writes the final result for one stage of a job.
	// Returns ErrDuplicateKey if a result for (job, stage) already exists;
	// the stored result is never overwritten.
	RecordStageResult(ctx context.Context, jobID string, result core.StageResult) error

	// AppendStageAttempt appends one execution attempt record.
	AppendStageAttempt(ctx context.Context, jobID string, attempt core.StageAttempt) error

	// GetStageAttempts returns the recorded attempts for (job, stage) in
	// attempt order. Returns an empty slice when none exist.
	GetStageAttempts(ctx context.Context, jobID, stageName string) ([]core.StageAttempt, error)

	// ListJobsByStatus returns up to limit jobs currently in the given
	// status, ordered by creation time descending.
	ListJobsByStatus(ctx context.Context, status core.JobStatus, limit int) ([]*core.Job, error)
}

// DocumentRepository provides operations for normalized documents.
// Documents are immutable once stored.
type DocumentRepository interface {
	Repository

	// AddDocument persists a normalized document. Storing the same
	// content-addressed id twice is a no-op, not an error.
	AddDocument(ctx context.Context, doc *core.Document) error

	// GetDocument retrieves a document by id.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)
}
