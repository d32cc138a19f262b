package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrJobNotFound is returned by Store implementations when no job exists
// for the given identifier.
var ErrJobNotFound = errors.New("job not found")

// Store is the persistence contract for job records. Every mutation must be
// a single atomic write so a concurrent status read never observes a torn
// record, e.g. a processing status with completion fields populated.
type Store interface {
	// Get returns the job or ErrJobNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Job, error)

	// SetProcessing marks the job processing with progress 0 and records
	// the start timestamp.
	SetProcessing(ctx context.Context, id uuid.UUID) error

	// SetProgress updates the progress percentage of a processing job.
	SetProgress(ctx context.Context, id uuid.UUID, progress int) error

	// SetCompleted marks the job completed with progress 100, records the
	// output artifact and the completion timestamp.
	SetCompleted(ctx context.Context, id uuid.UUID, audioKey, audioURL string) error

	// SetFailed marks the job failed with the given message.
	SetFailed(ctx context.Context, id uuid.UUID, errMsg string) error

	// ListCompletedBefore returns completed jobs whose completion
	// timestamp precedes the cutoff.
	ListCompletedBefore(ctx context.Context, cutoff time.Time) ([]*Job, error)

	// Delete removes the job record.
	Delete(ctx context.Context, id uuid.UUID) error
}
