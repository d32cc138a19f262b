package text

import (
	"regexp"
	"strings"
)

// mojibake repairs for UTF-8 read as Windows-1252, plus typographic
// ligatures that PDF extractors emit as single codepoints. Applied as
// literal substring replacements, longest patterns first.
var repairs = []struct {
	from, to string
}{
	{"â€™", "'"},
	{"â€˜", "'"},
	{"â€œ", "\""},
	{"â€", "\""},
	{"â€“", "-"},
	{"â€”", "-"},
	{"â€¦", "..."},
	{"Â·", "-"},
	{"Â ", " "},
	{" ", " "},
	{"ﬃ", "ffi"},
	{"ﬄ", "ffl"},
	{"ﬁ", "fi"},
	{"ﬂ", "fl"},
	{"ﬀ", "ff"},
}

var (
	spaceRun = regexp.MustCompile(`[ \t\f\v]+`)
	blankRun = regexp.MustCompile(`\n{3,}`)
)

// Normalize repairs encoding artifacts and collapses whitespace into clean
// prose. It is pure and idempotent, and never fails; unusable input comes
// back as an empty string, which callers treat as extraction failure.
func Normalize(s string) string {
	for _, r := range repairs {
		s = strings.ReplaceAll(s, r.from, r.to)
	}

	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	// Collapse whitespace runs within each line
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")

	// Collapse runs of blank lines to a single blank line
	s = blankRun.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
