package tts

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnsupportedProvider is returned by the registry for unknown provider names
var ErrUnsupportedProvider = errors.New("unsupported synthesis provider")

// Provider converts one chunk of text into encoded audio. Implementations
// are stateless apart from credentials; every call is independent. An
// adapter that cannot honor speed must silently ignore it rather than fail.
type Provider interface {
	// Name returns the registry identifier of this provider
	Name() string

	// MaxTextLen returns the provider-imposed ceiling on input characters,
	// used by the segmenter to size chunks
	MaxTextLen() int

	// Synthesize converts text to audio bytes using the given voice and
	// reading-speed multiplier
	Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error)
}

// SynthesisError wraps an adapter failure with the provider that caused it.
// Synthesis failures abort the whole job; they are never recovered locally.
type SynthesisError struct {
	Provider string
	Err      error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed on provider %q: %v", e.Provider, e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}
