package jobs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JasonDoug/pdf2audiobook/internal/extract"
	"github.com/JasonDoug/pdf2audiobook/internal/observability"
	"github.com/JasonDoug/pdf2audiobook/internal/pipeline"
	"github.com/JasonDoug/pdf2audiobook/internal/resilience"
	"github.com/JasonDoug/pdf2audiobook/internal/storage"
	"github.com/JasonDoug/pdf2audiobook/internal/tts"
)

// Converter runs one document through the conversion pipeline.
type Converter interface {
	Run(ctx context.Context, in pipeline.Input, progress pipeline.ProgressFunc) ([]byte, error)
}

// Result is the terminal outcome of one job execution.
type Result struct {
	Status   Status
	AudioURL string
}

// Runner executes conversion jobs. It is the single place that converts a
// pipeline failure into persisted failed state and a retry decision; no
// error escapes Process without the job reaching a terminal status first.
type Runner struct {
	store     Store
	artifacts storage.Storage
	converter Converter
	retryCfg  *resilience.RetryConfig
	logger    zerolog.Logger
}

// NewRunner creates a Runner with the given collaborators and retry policy.
func NewRunner(store Store, artifacts storage.Storage, converter Converter, maxAttempts int, retryDelay time.Duration) *Runner {
	return &Runner{
		store:     store,
		artifacts: artifacts,
		converter: converter,
		retryCfg: &resilience.RetryConfig{
			MaxAttempts: maxAttempts,
			Delay:       retryDelay,
		},
		logger: observability.WithComponent("runner"),
	}
}

// Process executes the job to a terminal state. Failed attempts persist
// failed status before the next attempt starts, so a crash mid-retry never
// leaves a job stuck in processing.
func (r *Runner) Process(ctx context.Context, jobID uuid.UUID) (*Result, error) {
	logger := observability.WithJobID(jobID)

	job, err := r.store.Get(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("loading job: %w", err)
	}
	if job.IsTerminal() {
		// Requeues of an already-finished job are a no-op.
		logger.Warn().Str("status", string(job.Status)).Msg("Job already terminal, skipping")
		return &Result{Status: job.Status, AudioURL: job.AudioURL}, nil
	}

	metrics := observability.NewJobMetrics(jobID.String())
	metrics.RecordJobStart()

	var audioURL string
	err = resilience.Retry(ctx, func(attempt int) error {
		if attempt > 1 {
			metrics.RecordRetry()
			logger.Info().Int("attempt", attempt).Msg("Retrying job")
		}

		url, runErr := r.runOnce(ctx, job, logger)
		if runErr != nil {
			// Persist the failure before any retry so status reads
			// between attempts see failed, not a stale processing row.
			if setErr := r.store.SetFailed(ctx, job.ID, runErr.Error()); setErr != nil {
				logger.Error().Err(setErr).Msg("Failed to persist job failure")
			}
			metrics.RecordError(errorType(runErr), "runner")
			return runErr
		}
		audioURL = url
		return nil
	}, r.retryCfg, func(err error) bool {
		return !isPermanentFailure(err)
	})

	if err != nil {
		metrics.RecordJobEnd("failed")
		logger.Error().Err(err).Msg("Job failed after all attempts")
		return &Result{Status: StatusFailed}, nil
	}

	metrics.RecordJobEnd("completed")
	logger.Info().Str("audio_url", audioURL).Msg("Job completed")
	return &Result{Status: StatusCompleted, AudioURL: audioURL}, nil
}

// runOnce performs one full attempt: download, convert, upload, persist.
func (r *Runner) runOnce(ctx context.Context, job *Job, logger zerolog.Logger) (string, error) {
	if err := r.store.SetProcessing(ctx, job.ID); err != nil {
		return "", fmt.Errorf("marking job processing: %w", err)
	}

	document, err := r.artifacts.Download(ctx, job.DocumentKey)
	if err != nil {
		return "", fmt.Errorf("downloading document: %w", err)
	}

	// The extractor works on files, so spool the document to a temp path
	// owned exclusively by this attempt.
	tmp, err := os.CreateTemp("", "pdf2audiobook-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(document); err != nil {
		tmp.Close()
		return "", fmt.Errorf("spooling document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("spooling document: %w", err)
	}

	audioData, err := r.converter.Run(ctx, pipeline.Input{
		DocumentPath:   tmpPath,
		Provider:       job.Provider,
		Voice:          job.Voice,
		Speed:          job.Speed,
		IncludeSummary: job.IncludeSummary,
	}, func(pct int) {
		// Progress writes are best effort; a dropped update only delays
		// what the client sees.
		if err := r.store.SetProgress(ctx, job.ID, pct); err != nil {
			logger.Warn().Err(err).Int("progress", pct).Msg("Failed to persist progress")
		}
	})
	if err != nil {
		return "", err
	}
	observability.RecordAudioBytes(int64(len(audioData)))

	audioKey := fmt.Sprintf("audio/%s/%s.mp3", job.UserID, job.ID)
	audioURL, err := r.artifacts.Upload(ctx, audioData, audioKey, "audio/mpeg")
	if err != nil {
		return "", fmt.Errorf("uploading audio: %w", err)
	}

	if err := r.store.SetCompleted(ctx, job.ID, audioKey, audioURL); err != nil {
		return "", fmt.Errorf("marking job completed: %w", err)
	}

	return audioURL, nil
}

// isPermanentFailure reports whether retrying could possibly help. An
// unreadable document or an unknown provider fails identically every time.
func isPermanentFailure(err error) bool {
	return errors.Is(err, extract.ErrNoText) ||
		errors.Is(err, tts.ErrUnsupportedProvider) ||
		resilience.IsPermanent(err)
}

// errorType buckets an error for the error counter labels.
func errorType(err error) string {
	var synthErr *tts.SynthesisError
	switch {
	case errors.Is(err, extract.ErrNoText):
		return "extraction"
	case errors.Is(err, tts.ErrUnsupportedProvider):
		return "unsupported_provider"
	case errors.As(err, &synthErr):
		return "synthesis"
	default:
		return "internal"
	}
}
