package audio

import (
	"bytes"
	"errors"
)

// ErrNoFragments is returned when assembly is attempted with zero fragments.
// It guards callers so a job can never succeed with silent output.
var ErrNoFragments = errors.New("no audio fragments to assemble")

// Fragment is the encoded audio for one text chunk, tagged with the chunk
// index that produced it
type Fragment struct {
	Index int
	Data  []byte
}

// Assemble concatenates fragments in the exact order received into one
// continuous stream. All fragments share a codec and bitrate (every adapter
// requests the same MP3 output format), so the byte-level join is the
// container-level join.
func Assemble(fragments []Fragment) ([]byte, error) {
	if len(fragments) == 0 {
		return nil, ErrNoFragments
	}

	total := 0
	for _, f := range fragments {
		total += len(f.Data)
	}

	var buf bytes.Buffer
	buf.Grow(total)
	for _, f := range fragments {
		buf.Write(f.Data)
	}
	return buf.Bytes(), nil
}
