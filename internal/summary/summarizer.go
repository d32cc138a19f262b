package summary

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/JasonDoug/pdf2audiobook/internal/observability"
	"github.com/JasonDoug/pdf2audiobook/internal/resilience"
)

const (
	// MaxInputChars caps how much of the document is sent to the model
	MaxInputChars = 4000

	// FallbackChars is the excerpt length used when generation fails
	FallbackChars = 200

	// maxSummaryTokens bounds the generated summary
	maxSummaryTokens = 200

	systemPrompt = "You are a helpful assistant that creates concise summaries of text. " +
		"Create a summary that is no more than 150 words."
)

// CompletionClient is the generation service the summarizer calls.
// At most one request is made per job.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// Summarizer produces a short abstract of a document. It degrades to an
// excerpt on any upstream failure: summarization must never fail a job.
type Summarizer struct {
	client  CompletionClient
	breaker *resilience.CircuitBreaker
	logger  zerolog.Logger
}

// New creates a Summarizer around a completion client
func New(client CompletionClient) *Summarizer {
	return &Summarizer{
		client:  client,
		breaker: resilience.NewCircuitBreaker("summary-llm", 5, 30*time.Second),
		logger:  observability.WithComponent("summary"),
	}
}

// Summarize returns a short abstract of text, or a leading excerpt when the
// generation service is unavailable. It never returns an error.
func (s *Summarizer) Summarize(ctx context.Context, text string) string {
	input := truncate(text, MaxInputChars)

	var generated string
	err := s.breaker.Call(func() error {
		var callErr error
		generated, callErr = s.client.Complete(ctx, systemPrompt, "Please summarize this text:\n\n"+input, maxSummaryTokens)
		return callErr
	})

	if err != nil || strings.TrimSpace(generated) == "" {
		if err != nil {
			s.logger.Warn().Err(err).Msg("Summary generation failed, using excerpt fallback")
		}
		observability.RecordSummaryResult(false)
		return truncate(text, FallbackChars)
	}

	observability.RecordSummaryResult(true)
	return strings.TrimSpace(generated)
}

// truncate cuts s to at most n runes, appending an ellipsis when it cuts
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
