package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	got := Normalize("Hello   world\t\tagain")
	assert.Equal(t, "Hello world again", got)
}

func TestNormalize_CollapsesBlankLines(t *testing.T) {
	got := Normalize("First paragraph.\n\n\n\n\nSecond paragraph.")
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", got)
}

func TestNormalize_TrimsLines(t *testing.T) {
	got := Normalize("  leading\ntrailing   \n  both  ")
	assert.Equal(t, "leading\ntrailing\nboth", got)
}

func TestNormalize_RepairsMojibake(t *testing.T) {
	got := Normalize("Itâ€™s a â€œquoteâ€“testâ€¦")
	assert.Equal(t, "It's a \"quote-test...", got)
}

func TestNormalize_RepairsLigatures(t *testing.T) {
	got := Normalize("eﬃcient ﬁle ﬂow")
	assert.Equal(t, "efficient file flow", got)
}

func TestNormalize_CarriageReturns(t *testing.T) {
	got := Normalize("line one\r\nline two\rline three")
	assert.Equal(t, "line one\nline two\nline three", got)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Itâ€™s   a ﬁne\n\n\n\nday.  ",
		"plain text already normal",
		"Chapter 1\nSome sentence. Another one!",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize must be idempotent for %q", in)
	}
}

func TestNormalize_WorstCaseEmpty(t *testing.T) {
	assert.Equal(t, "", Normalize("   \n\n \t \n  "))
}
