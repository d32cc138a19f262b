package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the conversion worker
type Config struct {
	// Sidecar HTTP server (health + metrics)
	Port string `envconfig:"PORT" default:"8080"`

	// Redis task queue configuration
	RedisAddr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword     string `envconfig:"REDIS_PASSWORD" default:""`
	WorkerConcurrency int    `envconfig:"WORKER_CONCURRENCY" default:"4"` // Jobs processed in parallel

	// Job persistence
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Blob storage (filesystem backend)
	StorageDir string `envconfig:"STORAGE_DIR" default:"/var/lib/pdf2audiobook"`

	// OpenAI configuration (summaries + openai TTS provider)
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY" required:"true"`
	SummaryModel string `envconfig:"SUMMARY_MODEL" default:"gpt-4o-mini"`

	// Additional TTS provider credentials (adapters without a key are not registered)
	GoogleTTSAPIKey   string `envconfig:"GOOGLE_TTS_API_KEY" default:""`
	AzureSpeechKey    string `envconfig:"AZURE_SPEECH_KEY" default:""`
	AzureSpeechRegion string `envconfig:"AZURE_SPEECH_REGION" default:"eastus"`
	ElevenLabsAPIKey  string `envconfig:"ELEVENLABS_API_KEY" default:""`

	// Extraction configuration
	MinTextLength int    `envconfig:"MIN_TEXT_LENGTH" default:"100"` // Below this, fall back to OCR
	OCRLanguage   string `envconfig:"OCR_LANGUAGE" default:"eng"`    // Tesseract language code

	// Retry configuration for failed jobs
	JobMaxAttempts int `envconfig:"JOB_MAX_ATTEMPTS" default:"3"` // Full pipeline attempts per job
	JobRetryDelay  int `envconfig:"JOB_RETRY_DELAY" default:"60"` // Seconds between attempts

	// Retention sweeper configuration
	RetentionDays int    `envconfig:"RETENTION_DAYS" default:"30"`     // Completed jobs older than this are removed
	SweepSchedule string `envconfig:"SWEEP_SCHEDULE" default:"@daily"` // Cron spec for the sweep task

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`       // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`     // Pretty print logs (for development)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"` // Enable Prometheus metrics
}

// Load reads configuration from environment variables
// It first attempts to load from .env file if it exists, then from environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for containerized deployments)
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.JobMaxAttempts < 1 {
		return nil, fmt.Errorf("JOB_MAX_ATTEMPTS must be at least 1")
	}

	return &cfg, nil
}
