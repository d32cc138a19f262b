package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JasonDoug/pdf2audiobook/internal/jobs"
)

// Schema is the job table DDL. Applied by migrations or at first boot of a
// development environment.
const Schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id              UUID PRIMARY KEY,
	user_id         UUID NOT NULL,
	document_key    TEXT NOT NULL,
	provider        TEXT NOT NULL,
	voice           TEXT NOT NULL DEFAULT 'default',
	speed           DOUBLE PRECISION NOT NULL DEFAULT 1.0,
	include_summary BOOLEAN NOT NULL DEFAULT FALSE,
	status          TEXT NOT NULL DEFAULT 'pending',
	progress        INTEGER NOT NULL DEFAULT 0,
	error_message   TEXT NOT NULL DEFAULT '',
	audio_key       TEXT NOT NULL DEFAULT '',
	audio_url       TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	started_at      TIMESTAMPTZ,
	completed_at    TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_jobs_status_completed_at
	ON jobs (status, completed_at);
`

const jobColumns = `id, user_id, document_key, provider, voice, speed,
	include_summary, status, progress, error_message, audio_key, audio_url,
	created_at, started_at, completed_at`

// PostgresStore implements jobs.Store on a pgx connection pool. Every
// mutation is one SQL statement, so each status or progress write commits
// atomically and concurrent readers never see a torn record.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ jobs.Store = (*PostgresStore)(nil)

// NewPostgresStore connects to the database and verifies the connection.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies database connectivity, used by the readiness probe.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*jobs.Job, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", jobs.ErrJobNotFound, id)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (s *PostgresStore) SetProcessing(ctx context.Context, id uuid.UUID) error {
	return s.exec(ctx, id, `
		UPDATE jobs
		SET status = $2, progress = 0, error_message = '', started_at = now()
		WHERE id = $1`,
		jobs.StatusProcessing)
}

func (s *PostgresStore) SetProgress(ctx context.Context, id uuid.UUID, progress int) error {
	return s.exec(ctx, id, `
		UPDATE jobs
		SET progress = $2
		WHERE id = $1`,
		progress)
}

func (s *PostgresStore) SetCompleted(ctx context.Context, id uuid.UUID, audioKey, audioURL string) error {
	return s.exec(ctx, id, `
		UPDATE jobs
		SET status = $2, progress = 100, audio_key = $3, audio_url = $4, completed_at = now()
		WHERE id = $1`,
		jobs.StatusCompleted, audioKey, audioURL)
}

func (s *PostgresStore) SetFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return s.exec(ctx, id, `
		UPDATE jobs
		SET status = $2, error_message = $3
		WHERE id = $1`,
		jobs.StatusFailed, errMsg)
}

func (s *PostgresStore) ListCompletedBefore(ctx context.Context, cutoff time.Time) ([]*jobs.Job, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE status = $1 AND completed_at < $2
		ORDER BY completed_at`,
		jobs.StatusCompleted, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed jobs: %w", err)
	}
	defer rows.Close()

	var out []*jobs.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list completed jobs: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", jobs.ErrJobNotFound, id)
	}
	return nil
}

// exec runs one UPDATE keyed by job id and maps a zero-row result to
// ErrJobNotFound.
func (s *PostgresStore) exec(ctx context.Context, id uuid.UUID, sql string, args ...any) error {
	allArgs := append([]any{id}, args...)
	tag, err := s.pool.Exec(ctx, sql, allArgs...)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", jobs.ErrJobNotFound, id)
	}
	return nil
}

func scanJob(row pgx.Row) (*jobs.Job, error) {
	var j jobs.Job
	err := row.Scan(
		&j.ID,
		&j.UserID,
		&j.DocumentKey,
		&j.Provider,
		&j.Voice,
		&j.Speed,
		&j.IncludeSummary,
		&j.Status,
		&j.Progress,
		&j.ErrorMessage,
		&j.AudioKey,
		&j.AudioURL,
		&j.CreatedAt,
		&j.StartedAt,
		&j.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}
