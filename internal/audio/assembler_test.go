package audio

import (
	"bytes"
	"errors"
	"testing"
)

func TestAssembleEmptyInput(t *testing.T) {
	_, err := Assemble(nil)
	if !errors.Is(err, ErrNoFragments) {
		t.Errorf("Expected ErrNoFragments, got %v", err)
	}

	_, err = Assemble([]Fragment{})
	if !errors.Is(err, ErrNoFragments) {
		t.Errorf("Expected ErrNoFragments for empty slice, got %v", err)
	}
}

func TestAssembleSingleFragment(t *testing.T) {
	out, err := Assemble([]Fragment{{Index: 0, Data: []byte("AUDIO")}})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !bytes.Equal(out, []byte("AUDIO")) {
		t.Errorf("Expected output to equal input fragment, got %q", out)
	}
}

func TestAssemblePreservesOrder(t *testing.T) {
	fragments := []Fragment{
		{Index: 0, Data: []byte("one-")},
		{Index: 1, Data: []byte("two-")},
		{Index: 2, Data: []byte("three")},
	}

	out, err := Assemble(fragments)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	expected := []byte("one-two-three")
	if !bytes.Equal(out, expected) {
		t.Errorf("Expected %q, got %q", expected, out)
	}
}

func TestAssembleLengthIsSumOfFragments(t *testing.T) {
	fragments := []Fragment{
		{Index: 0, Data: make([]byte, 1024)},
		{Index: 1, Data: make([]byte, 2048)},
		{Index: 2, Data: make([]byte, 0)},
		{Index: 3, Data: make([]byte, 17)},
	}

	out, err := Assemble(fragments)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(out) != 1024+2048+17 {
		t.Errorf("Expected %d bytes, got %d", 1024+2048+17, len(out))
	}
}
