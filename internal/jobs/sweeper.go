package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/JasonDoug/pdf2audiobook/internal/observability"
	"github.com/JasonDoug/pdf2audiobook/internal/storage"
)

// Sweeper removes completed jobs past the retention window together with
// their source and output artifacts. Completed rows are immutable, so the
// sweeper runs safely alongside active workers.
type Sweeper struct {
	store     Store
	artifacts storage.Storage
	retention time.Duration
	logger    zerolog.Logger
}

// NewSweeper creates a Sweeper with the given retention window.
func NewSweeper(store Store, artifacts storage.Storage, retention time.Duration) *Sweeper {
	return &Sweeper{
		store:     store,
		artifacts: artifacts,
		retention: retention,
		logger:    observability.WithComponent("sweeper"),
	}
}

// Sweep deletes every completed job older than the retention window and
// returns the number of jobs fully cleaned up. Cleanup is best effort per
// job: a failure on one job is logged and does not block the rest.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-s.retention)

	expired, err := s.store.ListCompletedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, job := range expired {
		if err := ctx.Err(); err != nil {
			return swept, err
		}
		if s.sweepOne(ctx, job) {
			swept++
			observability.RecordSweptJob()
		}
	}

	if swept > 0 {
		s.logger.Info().Int("swept", swept).Time("cutoff", cutoff).Msg("Retention sweep finished")
	}
	return swept, nil
}

// sweepOne deletes one job's artifacts and record, reporting full success.
func (s *Sweeper) sweepOne(ctx context.Context, job *Job) bool {
	logger := s.logger.With().Str("job_id", job.ID.String()).Logger()

	// A missing artifact is fine; an earlier partial sweep may have
	// removed it already.
	if err := s.artifacts.Delete(ctx, job.DocumentKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Error().Err(err).Str("key", job.DocumentKey).Msg("Failed to delete source artifact")
		return false
	}

	if job.AudioKey != "" {
		if err := s.artifacts.Delete(ctx, job.AudioKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Error().Err(err).Str("key", job.AudioKey).Msg("Failed to delete audio artifact")
			return false
		}
	}

	if err := s.store.Delete(ctx, job.ID); err != nil {
		logger.Error().Err(err).Msg("Failed to delete job record")
		return false
	}

	return true
}
