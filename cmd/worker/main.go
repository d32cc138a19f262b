package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/JasonDoug/pdf2audiobook/internal/config"
	"github.com/JasonDoug/pdf2audiobook/internal/extract"
	"github.com/JasonDoug/pdf2audiobook/internal/jobs"
	"github.com/JasonDoug/pdf2audiobook/internal/observability"
	"github.com/JasonDoug/pdf2audiobook/internal/pipeline"
	"github.com/JasonDoug/pdf2audiobook/internal/queue"
	"github.com/JasonDoug/pdf2audiobook/internal/storage"
	"github.com/JasonDoug/pdf2audiobook/internal/store"
	"github.com/JasonDoug/pdf2audiobook/internal/summary"
	"github.com/JasonDoug/pdf2audiobook/internal/tts"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Str("port", cfg.Port).
		Str("redis_addr", cfg.RedisAddr).
		Int("concurrency", cfg.WorkerConcurrency).
		Str("log_level", cfg.LogLevel).
		Bool("metrics_enabled", cfg.MetricsEnabled).
		Msg("Conversion worker starting")

	ctx := context.Background()

	// Job persistence
	jobStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer jobStore.Close()

	// Blob storage
	blobs, err := storage.NewFS(cfg.StorageDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	// Pipeline collaborators
	extractor := extract.NewExtractor(extract.NewTesseract(cfg.OCRLanguage), cfg.MinTextLength)
	summarizer := summary.New(summary.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.SummaryModel))
	registry := buildRegistry(cfg)
	logger.Info().Strs("providers", registry.Names()).Msg("TTS providers registered")

	pipe := pipeline.New(extractor, summarizer, registry)

	runner := jobs.NewRunner(jobStore, blobs, pipe,
		cfg.JobMaxAttempts, time.Duration(cfg.JobRetryDelay)*time.Second)
	sweeper := jobs.NewSweeper(jobStore, blobs,
		time.Duration(cfg.RetentionDays)*24*time.Hour)

	// Task queue server + periodic sweep
	queueServer, err := queue.NewServer(queue.Config{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		Concurrency:   cfg.WorkerConcurrency,
		SweepSchedule: cfg.SweepSchedule,
	}, runner, sweeper)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to configure task queue")
	}

	// Shared Redis connection for the readiness probe
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	defer redisClient.Close()

	// Sidecar HTTP server for health and metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/health", observability.HealthCheckHandler())
	mux.HandleFunc("/ready", observability.ReadinessHandler(map[string]observability.HealthCheckFunc{
		"database": func(ctx context.Context) (bool, error) {
			if err := jobStore.Ping(ctx); err != nil {
				return false, err
			}
			return true, nil
		},
		"redis": func(ctx context.Context) (bool, error) {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return false, err
			}
			return true, nil
		},
		"storage": func(ctx context.Context) (bool, error) {
			if _, err := os.Stat(cfg.StorageDir); err != nil {
				return false, err
			}
			return true, nil
		},
	}))

	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info().Msg("Prometheus metrics enabled at /metrics")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Sidecar HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Sidecar HTTP server failed to start")
		}
	}()

	// Start consuming tasks
	if err := queueServer.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start task queue")
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down worker...")

	// Stop taking new tasks, finish in-flight jobs
	queueServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Sidecar HTTP server forced to shutdown")
	}

	logger.Info().Msg("Worker exited gracefully")
}

// buildRegistry registers every provider whose credentials are configured.
// OpenAI is always present since its key is required for summaries.
func buildRegistry(cfg *config.Config) *tts.Registry {
	registry := tts.NewRegistry(tts.NewOpenAIProvider(cfg.OpenAIAPIKey))

	if cfg.GoogleTTSAPIKey != "" {
		registry.Register(tts.NewGoogleProvider(cfg.GoogleTTSAPIKey))
	}
	if cfg.AzureSpeechKey != "" {
		registry.Register(tts.NewAzureProvider(cfg.AzureSpeechKey, cfg.AzureSpeechRegion))
	}
	if cfg.ElevenLabsAPIKey != "" {
		registry.Register(tts.NewElevenLabsProvider(cfg.ElevenLabsAPIKey))
	}

	return registry
}
