package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const azureMaxTextLen = 3000

// AzureProvider synthesizes speech with the Azure Cognitive Services speech
// API. Speed is expressed as a relative SSML prosody rate ("+20%"/"-10%").
type AzureProvider struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewAzureProvider creates the azure adapter with explicit credentials
func NewAzureProvider(apiKey, region string) *AzureProvider {
	return &AzureProvider{
		apiKey:     apiKey,
		apiURL:     fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region),
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *AzureProvider) Name() string { return "azure" }

func (p *AzureProvider) MaxTextLen() int { return azureMaxTextLen }

// Synthesize converts one chunk of text to MP3 audio
func (p *AzureProvider) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	if voice == "" || voice == "default" {
		voice = "en-US-JennyNeural"
	}

	// Azure expresses rate as a signed percentage relative to normal speed
	rate := (clampSpeed(speed, 0.25, 4.0) - 1.0) * 100
	ssml := fmt.Sprintf(
		`<speak version='1.0' xml:lang='en-US'><voice name='%s'><prosody rate='%+.0f%%'>%s</prosody></voice></speak>`,
		voice, rate, escapeSSML(text),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, strings.NewReader(ssml))
	if err != nil {
		return nil, &SynthesisError{Provider: p.Name(), Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("Ocp-Apim-Subscription-Key", p.apiKey)
	req.Header.Set("X-Microsoft-OutputFormat", "audio-16khz-128kbitrate-mono-mp3")

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
