package extract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract is an OCR implementation backed by the Tesseract engine
type Tesseract struct {
	language string
}

// NewTesseract creates a Tesseract OCR engine for the given language code
// (e.g. "eng"). A fresh client is created per page because gosseract clients
// are not safe for concurrent use across jobs.
func NewTesseract(language string) *Tesseract {
	return &Tesseract{language: language}
}

// Recognize runs OCR over a PNG-encoded page image
func (t *Tesseract) Recognize(ctx context.Context, png []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("failed to set OCR language %q: %w", t.language, err)
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("failed to load page image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR recognition failed: %w", err)
	}
	return text, nil
}
