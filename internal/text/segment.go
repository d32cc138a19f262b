package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultMaxChunkLen is the fallback chunk ceiling when a provider
	// reports no limit of its own
	DefaultMaxChunkLen = 3000

	// minChapterSentences is the number of sentences a chapter must hold
	// before a heading is allowed to break it. Prevents spurious chapter
	// breaks from short leading matter like title pages.
	minChapterSentences = 5

	// maxHeadingWords and minHeadingLen bound the all-caps heading heuristic
	maxHeadingWords = 10
	minHeadingLen   = 5
)

// Chunk is an ordered piece of text sized under a provider's input limit
type Chunk struct {
	Index   int    // Global order across the whole document
	Chapter int    // Chapter the chunk belongs to, in document order
	Text    string
}

var headingNumberRe = regexp.MustCompile(`(?i)^(chapter|section)\s+\d+`)

// Segment splits normalized text into synthesis-ready chunks: chapters first
// (heading heuristic), then sentence-packed chunks of at most maxLen
// characters. Chunks never break mid-sentence unless a single sentence
// exceeds maxLen, in which case it is force-broken at rune boundaries so no
// text is ever dropped.
func Segment(text string, maxLen int) []Chunk {
	if maxLen <= 0 {
		maxLen = DefaultMaxChunkLen
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	chapters := chapterize(sentences)

	var chunks []Chunk
	for chapterIdx, chapter := range chapters {
		for _, part := range packSentences(chapter, maxLen) {
			chunks = append(chunks, Chunk{
				Index:   len(chunks),
				Chapter: chapterIdx,
				Text:    part,
			})
		}
	}
	return chunks
}

// splitSentences cuts text at sentence punctuation followed by whitespace,
// and at line breaks (headings rarely carry terminal punctuation)
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)

	flush := func(start, end int) int {
		s := strings.TrimSpace(string(runes[start:end]))
		if s != "" {
			sentences = append(sentences, s)
		}
		return end
	}

	start := 0
	for i, r := range runes {
		switch {
		case r == '\n':
			start = flush(start, i)
		case r == '.' || r == '!' || r == '?':
			next := i + 1
			if next >= len(runes) || unicode.IsSpace(runes[next]) {
				start = flush(start, next)
			}
		}
	}
	flush(start, len(runes))

	return sentences
}

// chapterize groups sentences into chapters, starting a new chapter at each
// heading once the current chapter holds enough sentences
func chapterize(sentences []string) [][]string {
	var chapters [][]string
	var current []string

	for _, sentence := range sentences {
		if isHeading(sentence) && len(current) >= minChapterSentences {
			chapters = append(chapters, current)
			current = []string{sentence}
			continue
		}
		current = append(current, sentence)
	}
	if len(current) > 0 {
		chapters = append(chapters, current)
	}
	return chapters
}

// isHeading reports whether a sentence looks like a chapter heading: an
// explicit "Chapter N"/"Section N" marker, or a short all-caps line
func isHeading(s string) bool {
	if headingNumberRe.MatchString(s) {
		return true
	}

	if len(s) <= minHeadingLen || len(strings.Fields(s)) >= maxHeadingWords {
		return false
	}

	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// packSentences repacks a chapter's sentences into chunks of at most maxLen
// characters, breaking only at sentence boundaries
func packSentences(sentences []string, maxLen int) []string {
	var parts []string
	var buf strings.Builder
	bufRunes := 0

	flush := func() {
		if buf.Len() > 0 {
			parts = append(parts, buf.String())
			buf.Reset()
			bufRunes = 0
		}
	}

	for _, sentence := range sentences {
		n := utf8.RuneCountInString(sentence)
		if n > maxLen {
			// Oversized sentence: emit what we have, then force-break it
			flush()
			parts = append(parts, forceBreak(sentence, maxLen)...)
			continue
		}

		if bufRunes > 0 && bufRunes+1+n > maxLen { // +1 for the joining space
			flush()
		}
		if bufRunes > 0 {
			buf.WriteByte(' ')
			bufRunes++
		}
		buf.WriteString(sentence)
		bufRunes += n
	}
	flush()

	return parts
}

// forceBreak slices an oversized sentence into maxLen-rune pieces
func forceBreak(s string, maxLen int) []string {
	runes := []rune(s)
	var parts []string
	for start := 0; start < len(runes); start += maxLen {
		end := start + maxLen
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
