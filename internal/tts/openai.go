package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const openaiMaxTextLen = 4096

// openaiVoices maps the friendly voice types exposed to users onto OpenAI's
// voice catalog. Unknown names are passed through so power users can pick a
// catalog voice directly.
var openaiVoices = map[string]string{
	"default": "alloy",
	"female":  "nova",
	"male":    "onyx",
	"child":   "shimmer",
}

// OpenAIProvider synthesizes speech with the OpenAI TTS API.
// Speed maps directly onto the API's numeric speed parameter.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates the openai adapter with explicit credentials
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  "tts-1",
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) MaxTextLen() int { return openaiMaxTextLen }

// Synthesize converts one chunk of text to MP3 audio
func (p *OpenAIProvider) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	resolved := voice
	if mapped, ok := openaiVoices[voice]; ok {
		resolved = mapped
	}
	if resolved == "" {
		resolved = openaiVoices["default"]
	}

	params := openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(p.model),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(resolved),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
		Speed:          openai.Float(clampSpeed(speed, 0.25, 4.0)),
	}

	resp, err := p.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, &SynthesisError{Provider: p.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("API returned status %d", resp.StatusCode)}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("failed to read audio response: %w", err)}
	}
	if len(audio) == 0 {
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("empty audio response")}
	}
	return audio, nil
}

// clampSpeed bounds the reading-speed multiplier to a provider's legal range
func clampSpeed(speed, min, max float64) float64 {
	if speed <= 0 {
		return 1.0
	}
	if speed < min {
		return min
	}
	if speed > max {
		return max
	}
	return speed
}
