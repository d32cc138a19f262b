package text

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinChunks(chunks []Chunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, " ")
}

// squash collapses all whitespace so texts can be compared modulo spacing
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestSegment_SingleChunk(t *testing.T) {
	chunks := Segment("A. B. C.", 3000)

	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Chapter)
	assert.Equal(t, "A. B. C.", chunks[0].Text)
}

func TestSegment_PreservesTextModuloWhitespace(t *testing.T) {
	doc := Normalize(`CHAPTER ONE
The story begins here. It was a dark night! Nobody was around.
Chapter 2
The plot thickens. Questions arise? Answers follow. More text here.`)

	chunks := Segment(doc, 3000)
	require.NotEmpty(t, chunks)

	assert.Equal(t, squash(doc), squash(joinChunks(chunks)))
}

func TestSegment_RespectsCeiling(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("This is a sentence of some reasonable length for packing. ")
	}

	chunks := Segment(b.String(), 200)
	require.NotEmpty(t, chunks)

	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Text), 200, "chunk %d exceeds ceiling", c.Index)
	}
	assert.Equal(t, squash(b.String()), squash(joinChunks(chunks)))
}

func TestSegment_ChapterBreakOnNumberedHeading(t *testing.T) {
	doc := "Intro sentence one. Intro sentence two. Intro sentence three. " +
		"Intro sentence four. Intro sentence five.\n" +
		"Chapter 2\n" +
		"Body sentence one. Body sentence two."

	chunks := Segment(doc, 3000)
	require.NotEmpty(t, chunks)

	assert.Equal(t, 1, chunks[len(chunks)-1].Chapter, "expected a second chapter")
	assert.True(t, strings.HasPrefix(chunks[len(chunks)-1].Text, "Chapter 2"),
		"heading should start the new chapter, got %q", chunks[len(chunks)-1].Text)
}

func TestSegment_ChapterBreakOnUppercaseHeading(t *testing.T) {
	doc := "First sentence here. Second sentence here. Third sentence here. " +
		"Fourth sentence here. Fifth sentence here.\n" +
		"THE RECKONING\n" +
		"Chapter body sentence."

	chunks := Segment(doc, 3000)
	require.NotEmpty(t, chunks)
	assert.Equal(t, 1, chunks[len(chunks)-1].Chapter)
}

func TestSegment_NoBreakBeforeMinimumSentences(t *testing.T) {
	// A heading arriving after only two sentences must not split
	doc := "One sentence. Two sentences.\nCHAPTER HEADING\nMore text follows here."

	chunks := Segment(doc, 3000)
	for _, c := range chunks {
		assert.Equal(t, 0, c.Chapter)
	}
}

func TestSegment_HeadingOnlyDocumentIsOneChapter(t *testing.T) {
	// Five short heading-like lines and nothing else: exactly one chapter
	doc := "FIRST PART\nSECOND PART\nTHIRD PART\nFOURTH PART\nFIFTH PART"

	chunks := Segment(doc, 3000)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Equal(t, 0, c.Chapter)
	}
}

func TestSegment_NoBoundariesYieldsOneChunk(t *testing.T) {
	doc := "just a run of words with no terminal punctuation at all"

	chunks := Segment(doc, 3000)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Chapter)
	assert.Equal(t, doc, chunks[0].Text)
}

func TestSegment_ForceBreaksOversizedSentence(t *testing.T) {
	doc := strings.Repeat("x", 250) // no sentence boundary anywhere

	chunks := Segment(doc, 100)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Text), 100)
	}
	assert.Equal(t, doc, strings.Join([]string{chunks[0].Text, chunks[1].Text, chunks[2].Text}, ""))
}

func TestSegment_ForceBreakAtRuneBoundaries(t *testing.T) {
	doc := strings.Repeat("é", 150)

	chunks := Segment(doc, 100)
	require.Len(t, chunks, 2)
	assert.True(t, utf8.ValidString(chunks[0].Text))
	assert.True(t, utf8.ValidString(chunks[1].Text))
	assert.Equal(t, doc, chunks[0].Text+chunks[1].Text)
}

func TestSegment_IndicesAreOrdered(t *testing.T) {
	doc := "Alpha sentence one. Alpha sentence two. Alpha sentence three. " +
		"Alpha sentence four. Alpha sentence five.\n" +
		"Chapter 2\nBeta sentence one. Beta sentence two."

	chunks := Segment(doc, 40)
	lastChapter := 0
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.GreaterOrEqual(t, c.Chapter, lastChapter, "chapter order must be non-decreasing")
		lastChapter = c.Chapter
	}
}

func TestSegment_Empty(t *testing.T) {
	assert.Nil(t, Segment("", 3000))
	assert.Nil(t, Segment("   \n  ", 3000))
}

func TestIsHeading(t *testing.T) {
	assert.True(t, isHeading("Chapter 12"))
	assert.True(t, isHeading("section 3 of the act"))
	assert.True(t, isHeading("THE FINAL ACT"))
	assert.False(t, isHeading("ABC")) // too short to be a heading
	assert.False(t, isHeading("A normal sentence that is written in mixed case."))
	assert.False(t, isHeading("THIS HEADING HAS FAR TOO MANY WORDS TO BE A PLAUSIBLE CHAPTER TITLE AT ALL"))
	assert.False(t, isHeading("12345 67")) // digits only, no letters
}
