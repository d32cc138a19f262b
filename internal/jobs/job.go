package jobs

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a conversion job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job is one conversion request. Completed and failed are terminal; the
// record is never mutated again once either is written, which lets the
// sweeper operate on completed rows without coordinating with workers.
type Job struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	DocumentKey    string
	Provider       string
	Voice          string
	Speed          float64
	IncludeSummary bool
	Status         Status
	Progress       int
	ErrorMessage   string
	AudioKey       string
	AudioURL       string
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
}

// IsTerminal reports whether the job has reached a final state.
func (j *Job) IsTerminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
