package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Job metrics
	activeJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pdf2audiobook_active_jobs",
		Help: "Number of jobs currently being processed",
	})

	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdf2audiobook_jobs_total",
		Help: "Total number of jobs processed by terminal status",
	}, []string{"status"}) // status: "completed" or "failed"

	jobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pdf2audiobook_job_duration_seconds",
		Help:    "Wall-clock duration of job processing in seconds",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1800},
	})

	jobRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdf2audiobook_job_retries_total",
		Help: "Total number of job retry attempts after a failure",
	})

	// Extraction metrics
	ocrPages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdf2audiobook_ocr_pages_total",
		Help: "Total number of pages sent through the OCR fallback",
	})

	// TTS metrics
	ttsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdf2audiobook_tts_requests_total",
		Help: "Total number of TTS synthesis requests",
	}, []string{"provider", "status"})

	ttsLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pdf2audiobook_tts_latency_seconds",
		Help:    "TTS synthesis latency per chunk in seconds",
		Buckets: []float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
	}, []string{"provider"})

	// Summary metrics
	summaryRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdf2audiobook_summary_requests_total",
		Help: "Total number of summary generation requests",
	}, []string{"status"}) // status: "success" or "fallback"

	// Sweeper metrics
	sweptJobs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdf2audiobook_swept_jobs_total",
		Help: "Total number of expired jobs removed by the retention sweeper",
	})

	// Error metrics
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdf2audiobook_errors_total",
		Help: "Total number of errors",
	}, []string{"type", "component"})

	// Audio metrics
	audioBytesProduced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdf2audiobook_audio_bytes_total",
		Help: "Total bytes of assembled output audio",
	})
)

// JobMetrics tracks metrics for a single conversion job
type JobMetrics struct {
	jobID     string
	startTime time.Time
}

// NewJobMetrics creates a new metrics tracker for a job
func NewJobMetrics(jobID string) *JobMetrics {
	return &JobMetrics{
		jobID:     jobID,
		startTime: time.Now(),
	}
}

// RecordJobStart records the start of job processing
func (m *JobMetrics) RecordJobStart() {
	activeJobs.Inc()
}

// RecordJobEnd records the end of job processing with its terminal status
func (m *JobMetrics) RecordJobEnd(status string) {
	activeJobs.Dec()
	jobsTotal.WithLabelValues(status).Inc()
	jobDuration.Observe(time.Since(m.startTime).Seconds())
}

// RecordRetry records a retry attempt after a failure
func (m *JobMetrics) RecordRetry() {
	jobRetries.Inc()
}

// RecordError records an error
func (m *JobMetrics) RecordError(errorType, component string) {
	errorsTotal.WithLabelValues(errorType, component).Inc()
}

// RecordTTSRequest records one chunk synthesis call with its latency.
// Jobs run chunks sequentially, so callers time each call themselves
// rather than sharing start/stop state.
func RecordTTSRequest(provider string, duration time.Duration, success bool) {
	ttsLatency.WithLabelValues(provider).Observe(duration.Seconds())

	status := "success"
	if !success {
		status = "error"
	}
	ttsRequests.WithLabelValues(provider, status).Inc()
}

// RecordAudioBytes records the size of one assembled output
func RecordAudioBytes(bytes int64) {
	audioBytesProduced.Add(float64(bytes))
}

// RecordOCRPage increments the OCR fallback page counter
func RecordOCRPage() {
	ocrPages.Inc()
}

// RecordSummaryResult records whether a summary came from the model or the fallback excerpt
func RecordSummaryResult(fromModel bool) {
	status := "success"
	if !fromModel {
		status = "fallback"
	}
	summaryRequests.WithLabelValues(status).Inc()
}

// RecordSweptJob increments the retention sweeper counter
func RecordSweptJob() {
	sweptJobs.Inc()
}
