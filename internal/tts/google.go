package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const googleMaxTextLen = 5000

// GoogleProvider synthesizes speech with the Google Cloud Text-to-Speech
// REST API. Speed is expressed as an SSML prosody rate percentage.
type GoogleProvider struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// googleRequest is the request payload for the synthesize endpoint
type googleRequest struct {
	Input struct {
		SSML string `json:"ssml"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name,omitempty"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

// googleResponse carries the base64-encoded audio
type googleResponse struct {
	AudioContent string `json:"audioContent"`
}

// NewGoogleProvider creates the google adapter with explicit credentials
func NewGoogleProvider(apiKey string) *GoogleProvider {
	return &GoogleProvider{
		apiKey:     apiKey,
		apiURL:     "https://texttospeech.googleapis.com/v1/text:synthesize",
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) MaxTextLen() int { return googleMaxTextLen }

// Synthesize converts one chunk of text to MP3 audio
func (p *GoogleProvider) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	if voice == "" || voice == "default" {
		voice = "en-US-Standard-C"
	}

	var reqBody googleRequest
	reqBody.Input.SSML = speedSSML(text, speed)
	reqBody.Voice.LanguageCode = "en-US"
	reqBody.Voice.Name = voice
	reqBody.AudioConfig.AudioEncoding = "MP3"

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+"?key="+p.apiKey, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var result googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("failed to decode audio content: %w", err)}
	}
	if len(audio) == 0 {
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("empty audio response")}
	}
	return audio, nil
}

// speedSSML wraps escaped text in a prosody element carrying the reading
// speed as a rate percentage (1.0 → "100%")
func speedSSML(text string, speed float64) string {
	rate := clampSpeed(speed, 0.25, 4.0) * 100
	return fmt.Sprintf(`<speak><prosody rate="%.0f%%">%s</prosody></speak>`, rate, escapeSSML(text))
}

// escapeSSML escapes characters with special meaning in SSML markup
func escapeSSML(text string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(text)
}
