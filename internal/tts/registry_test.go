package tts

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct {
	name      string
	lastText  string
	lastVoice string
	lastSpeed float64
}

func (p *stubProvider) Name() string    { return p.name }
func (p *stubProvider) MaxTextLen() int { return 100 }

func (p *stubProvider) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	p.lastText = text
	p.lastVoice = voice
	p.lastSpeed = speed
	return []byte("AUDIO"), nil
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewRegistry(&stubProvider{name: "openai"})

	_, err := r.Get("unknown")
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("Expected ErrUnsupportedProvider, got %v", err)
	}
}

func TestRegistry_GetRegistered(t *testing.T) {
	stub := &stubProvider{name: "openai"}
	r := NewRegistry(stub)

	p, err := r.Get("openai")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	// The adapter must receive the exact voice and speed passed in
	audio, err := p.Synthesize(context.Background(), "hello", "nova", 1.25)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(audio) != "AUDIO" {
		t.Errorf("Expected AUDIO, got %s", audio)
	}
	if stub.lastVoice != "nova" || stub.lastSpeed != 1.25 || stub.lastText != "hello" {
		t.Errorf("Adapter received wrong arguments: %q %q %v", stub.lastText, stub.lastVoice, stub.lastSpeed)
	}
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry(&stubProvider{name: "OpenAI"})

	if _, err := r.Get("openai"); err != nil {
		t.Errorf("Expected case-insensitive lookup, got %v", err)
	}
	if _, err := r.Get("OPENAI"); err != nil {
		t.Errorf("Expected case-insensitive lookup, got %v", err)
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry(
		&stubProvider{name: "google"},
		&stubProvider{name: "azure"},
		&stubProvider{name: "openai"},
	)

	names := r.Names()
	want := []string{"azure", "google", "openai"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected names %v, got %v", want, names)
			break
		}
	}
}

func TestSynthesisError_Unwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := &SynthesisError{Provider: "openai", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("Expected SynthesisError to unwrap to its cause")
	}
	msg := err.Error()
	if msg == "" || msg == cause.Error() {
		t.Errorf("Expected provider context in message, got %q", msg)
	}
}

func TestClampSpeed(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 1.0},    // unset
		{-1, 1.0},   // nonsense
		{0.1, 0.25}, // below range
		{1.5, 1.5},  // in range
		{10, 4.0},   // above range
	}
	for _, c := range cases {
		if got := clampSpeed(c.in, 0.25, 4.0); got != c.want {
			t.Errorf("clampSpeed(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSpeedSSML_EscapesText(t *testing.T) {
	ssml := speedSSML(`Fish & "chips" <now>`, 1.0)

	want := `<speak><prosody rate="100%">Fish &amp; &quot;chips&quot; &lt;now&gt;</prosody></speak>`
	if ssml != want {
		t.Errorf("Expected %q, got %q", want, ssml)
	}
}
