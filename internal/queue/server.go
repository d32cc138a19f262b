package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/JasonDoug/pdf2audiobook/internal/jobs"
	"github.com/JasonDoug/pdf2audiobook/internal/observability"
)

// Processor executes one conversion job to a terminal state.
type Processor interface {
	Process(ctx context.Context, jobID uuid.UUID) (*jobs.Result, error)
}

// SweepRunner removes expired jobs and their artifacts.
type SweepRunner interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// Server consumes conversion and sweep tasks from Redis.
type Server struct {
	srv       *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	logger    zerolog.Logger
}

// Config holds the queue connection and scheduling settings.
type Config struct {
	RedisAddr     string
	RedisPassword string
	Concurrency   int
	SweepSchedule string
}

// NewServer builds the task server and the periodic sweep scheduler.
func NewServer(cfg Config, runner Processor, sweeper SweepRunner) (*Server, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}

	logger := observability.WithComponent("queue")

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Concurrency,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error().Err(err).Str("type", task.Type()).Msg("Task handler failed")
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeProcessPDF, handleProcess(runner, logger))
	mux.HandleFunc(TypeSweep, handleSweep(sweeper, logger))

	scheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := scheduler.Register(cfg.SweepSchedule, NewSweepTask()); err != nil {
		return nil, fmt.Errorf("failed to register sweep schedule: %w", err)
	}

	return &Server{
		srv:       srv,
		scheduler: scheduler,
		mux:       mux,
		logger:    logger,
	}, nil
}

// Start begins consuming tasks and running the sweep schedule. It does not
// block.
func (s *Server) Start() error {
	if err := s.srv.Start(s.mux); err != nil {
		return fmt.Errorf("failed to start task server: %w", err)
	}
	if err := s.scheduler.Start(); err != nil {
		s.srv.Shutdown()
		return fmt.Errorf("failed to start sweep scheduler: %w", err)
	}
	return nil
}

// Shutdown stops the scheduler and waits for in-flight tasks to finish.
func (s *Server) Shutdown() {
	s.scheduler.Shutdown()
	s.srv.Shutdown()
}

func handleProcess(runner Processor, logger zerolog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		jobID, err := parseProcessPayload(task.Payload())
		if err != nil {
			// A malformed payload never parses on redelivery either.
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		result, err := runner.Process(ctx, jobID)
		if err != nil {
			return err
		}

		logger.Info().
			Str("job_id", jobID.String()).
			Str("status", string(result.Status)).
			Msg("Conversion task finished")
		return nil
	}
}

func handleSweep(sweeper SweepRunner, logger zerolog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		count, err := sweeper.Sweep(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}
		logger.Info().Int("swept", count).Msg("Sweep task finished")
		return nil
	}
}
