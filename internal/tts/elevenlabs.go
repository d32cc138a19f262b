package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const elevenLabsMaxTextLen = 2500

// ElevenLabsProvider synthesizes speech with the ElevenLabs API.
// The API has no speed control, so the multiplier is ignored rather than
// failing the job.
type ElevenLabsProvider struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// elevenLabsRequest is the request payload for the text-to-speech endpoint
type elevenLabsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id,omitempty"`
}

// NewElevenLabsProvider creates the elevenlabs adapter with explicit credentials
func NewElevenLabsProvider(apiKey string) *ElevenLabsProvider {
	return &ElevenLabsProvider{
		apiKey:     apiKey,
		apiURL:     "https://api.elevenlabs.io/v1/text-to-speech",
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *ElevenLabsProvider) Name() string { return "elevenlabs" }

func (p *ElevenLabsProvider) MaxTextLen() int { return elevenLabsMaxTextLen }

// Synthesize converts one chunk of text to MP3 audio. speed is ignored.
func (p *ElevenLabsProvider) Synthesize(ctx context.Context, text, voice string, _ float64) ([]byte, error) {
	if voice == "" || voice == "default" {
		voice = "21m00Tcm4TlvDq8ikWAM" // Rachel
	}

	reqBody := elevenLabsRequest{
		Text:    text,
		ModelID: "eleven_monolingual_v1",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	endpoint := p.apiURL + "/" + url.PathEscape(voice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
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
