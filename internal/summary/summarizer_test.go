package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeClient struct {
	response string
	err      error
	calls    int
	lastUser string
}

func (c *fakeClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	c.calls++
	c.lastUser = user
	return c.response, c.err
}

func TestSummarize_Success(t *testing.T) {
	client := &fakeClient{response: "  A concise abstract.  "}
	s := New(client)

	got := s.Summarize(context.Background(), "The full document text goes here.")
	assert.Equal(t, "A concise abstract.", got)
	assert.Equal(t, 1, client.calls)
}

func TestSummarize_FallbackOnError(t *testing.T) {
	client := &fakeClient{err: errors.New("rate limited")}
	s := New(client)

	doc := "The opening of the document. And quite a lot more after it."
	got := s.Summarize(context.Background(), doc)
	assert.Equal(t, doc, got, "short documents fall back to themselves")
}

func TestSummarize_FallbackExcerptTruncated(t *testing.T) {
	client := &fakeClient{err: errors.New("upstream down")}
	s := New(client)

	doc := strings.Repeat("a", FallbackChars+100)
	got := s.Summarize(context.Background(), doc)
	assert.Equal(t, strings.Repeat("a", FallbackChars)+"...", got)
}

func TestSummarize_FallbackOnEmptyResponse(t *testing.T) {
	client := &fakeClient{response: "   "}
	s := New(client)

	got := s.Summarize(context.Background(), "Document body.")
	assert.Equal(t, "Document body.", got)
}

func TestSummarize_TruncatesInput(t *testing.T) {
	client := &fakeClient{response: "summary"}
	s := New(client)

	doc := strings.Repeat("b", MaxInputChars+500)
	_ = s.Summarize(context.Background(), doc)

	// Prompt preamble plus at most MaxInputChars of text and the ellipsis
	assert.LessOrEqual(t, len(client.lastUser), len("Please summarize this text:\n\n")+MaxInputChars+3)
}

func TestSummarize_BreakerShortCircuitsAfterRepeatedFailures(t *testing.T) {
	client := &fakeClient{err: errors.New("dead upstream")}
	s := New(client)

	for i := 0; i < 10; i++ {
		_ = s.Summarize(context.Background(), "text")
	}

	// Breaker opens after 5 consecutive failures; later calls skip the client
	assert.Equal(t, 5, client.calls)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "éé...", truncate("ééééé", 2), "truncation must respect rune boundaries")
}
