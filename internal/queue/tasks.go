package queue

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names. The API process that enqueues conversion jobs must use
// the same strings.
const (
	TypeProcessPDF = "pdf:process"
	TypeSweep      = "jobs:sweep"
)

// processPayload is the body of a pdf:process task.
type processPayload struct {
	JobID uuid.UUID `json:"job_id"`
}

// NewProcessTask builds a conversion task for the given job. Retries are
// disabled at the queue level; the runner owns the retry policy so attempts
// and delays stay consistent with what the job record reports.
func NewProcessTask(jobID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(processPayload{JobID: jobID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}
	return asynq.NewTask(TypeProcessPDF, payload, asynq.MaxRetry(0)), nil
}

// NewSweepTask builds a retention sweep task.
func NewSweepTask() *asynq.Task {
	return asynq.NewTask(TypeSweep, nil, asynq.MaxRetry(0))
}

func parseProcessPayload(data []byte) (uuid.UUID, error) {
	var p processPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return uuid.Nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}
	if p.JobID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("task payload missing job_id")
	}
	return p.JobID, nil
}
