package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/JasonDoug/pdf2audiobook/internal/audio"
	"github.com/JasonDoug/pdf2audiobook/internal/extract"
	"github.com/JasonDoug/pdf2audiobook/internal/observability"
	"github.com/JasonDoug/pdf2audiobook/internal/text"
	"github.com/JasonDoug/pdf2audiobook/internal/tts"
)

// Progress points reported between stages. Synthesis interpolates between
// synthesisStart and synthesisEnd, one report per completed chunk.
const (
	progressExtracted  = 10
	progressNormalized = 20
	progressSummarized = 30
	progressSegmented  = 40
	synthesisStart     = 40
	synthesisEnd       = 95
	progressDone       = 100
)

// Extractor produces plain text from a document on disk.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Summarizer produces a short summary of the given text. It never fails;
// on provider trouble it degrades to an excerpt of the source.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

// ProviderLookup resolves a TTS provider by name.
type ProviderLookup interface {
	Get(name string) (tts.Provider, error)
}

// ProgressFunc receives progress percentages as stages complete. Reports are
// monotone non-decreasing within one run. A nil ProgressFunc is allowed.
type ProgressFunc func(pct int)

// Input describes one conversion request.
type Input struct {
	DocumentPath   string
	Provider       string
	Voice          string
	Speed          float64
	IncludeSummary bool
}

// Pipeline runs a document through extraction, normalization, optional
// summarization, segmentation, synthesis and assembly. It performs no
// retries of its own; stage errors propagate to the caller unchanged.
type Pipeline struct {
	extractor  Extractor
	summarizer Summarizer
	providers  ProviderLookup
	logger     zerolog.Logger
}

// New creates a Pipeline with the given collaborators.
func New(extractor Extractor, summarizer Summarizer, providers ProviderLookup) *Pipeline {
	return &Pipeline{
		extractor:  extractor,
		summarizer: summarizer,
		providers:  providers,
		logger:     observability.WithComponent("pipeline"),
	}
}

// Run converts the document at in.DocumentPath into a single audio stream.
func (p *Pipeline) Run(ctx context.Context, in Input, progress ProgressFunc) ([]byte, error) {
	report := func(pct int) {
		if progress != nil {
			progress(pct)
		}
	}

	// Resolve the provider up front so an unknown name fails before any
	// expensive extraction work.
	provider, err := p.providers.Get(in.Provider)
	if err != nil {
		return nil, err
	}

	raw, err := p.extractor.Extract(ctx, in.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	report(progressExtracted)

	normalized := text.Normalize(raw)
	if normalized == "" {
		// Extraction can pass its length checks on text that is pure
		// mojibake or whitespace; once normalized away, the document is
		// as unusable as one that never extracted.
		return nil, fmt.Errorf("%w: document produced no usable text", extract.ErrNoText)
	}
	report(progressNormalized)

	if in.IncludeSummary {
		summary := p.summarizer.Summarize(ctx, normalized)
		normalized = "Summary: " + summary + "\n\nFull text:\n" + normalized
		report(progressSummarized)
	}

	maxLen := text.DefaultMaxChunkLen
	if provider.MaxTextLen() < maxLen {
		maxLen = provider.MaxTextLen()
	}
	chunks := text.Segment(normalized, maxLen)
	report(progressSegmented)

	p.logger.Info().
		Str("provider", provider.Name()).
		Int("chunks", len(chunks)).
		Int("max_chunk_len", maxLen).
		Msg("Starting synthesis")

	fragments := make([]audio.Fragment, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		data, err := provider.Synthesize(ctx, chunk.Text, in.Voice, in.Speed)
		observability.RecordTTSRequest(provider.Name(), time.Since(start), err == nil)
		if err != nil {
			return nil, fmt.Errorf("synthesis of chunk %d/%d failed: %w", i+1, len(chunks), err)
		}
		fragments = append(fragments, audio.Fragment{Index: chunk.Index, Data: data})

		report(synthesisProgress(i+1, len(chunks)))
	}

	out, err := audio.Assemble(fragments)
	if err != nil {
		return nil, err
	}
	report(progressDone)

	return out, nil
}

// synthesisProgress interpolates completed/total across the synthesis band.
func synthesisProgress(completed, total int) int {
	if total <= 0 {
		return synthesisEnd
	}
	return synthesisStart + (synthesisEnd-synthesisStart)*completed/total
}
