package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"

	"github.com/JasonDoug/pdf2audiobook/internal/observability"
)

// ErrNoText is returned when neither native extraction nor OCR produced any
// text. It marks the document as structurally unusable, as opposed to
// downstream infrastructure failures.
var ErrNoText = errors.New("no text could be extracted from the document")

// OCR recognizes text in a rendered page image (PNG bytes)
type OCR interface {
	Recognize(ctx context.Context, png []byte) (string, error)
}

// pdfDocument abstracts the opened document so tests can fake page content
type pdfDocument interface {
	NumPage() int
	Text(page int) (string, error)
	Image(page int) (image.Image, error)
	Close() error
}

// fitzDocument adapts *fitz.Document to pdfDocument
// (fitz returns *image.RGBA, the interface wants image.Image)
type fitzDocument struct {
	*fitz.Document
}

func (d fitzDocument) Image(page int) (image.Image, error) {
	return d.Document.Image(page)
}

func openFitz(path string) (pdfDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return fitzDocument{doc}, nil
}

// Extractor pulls text out of a PDF, falling back to per-page OCR when the
// native text layer is too thin (likely a scanned document)
type Extractor struct {
	open       func(path string) (pdfDocument, error)
	ocr        OCR
	minTextLen int
	logger     zerolog.Logger
}

// NewExtractor creates an extractor. minTextLen is the native-text length
// below which the document is treated as scanned and OCR kicks in.
func NewExtractor(ocr OCR, minTextLen int) *Extractor {
	return &Extractor{
		open:       openFitz,
		ocr:        ocr,
		minTextLen: minTextLen,
		logger:     observability.WithComponent("extract"),
	}
}

// Extract returns the document's text. It fails with ErrNoText only when
// both the native path and the OCR fallback come back empty.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	doc, err := e.open(path)
	if err != nil {
		return "", fmt.Errorf("%w: cannot open document: %v", ErrNoText, err)
	}
	defer doc.Close()

	native := e.nativeText(doc)
	if len(strings.TrimSpace(native)) >= e.minTextLen {
		return native, nil
	}

	e.logger.Info().
		Int("native_len", len(strings.TrimSpace(native))).
		Int("threshold", e.minTextLen).
		Msg("Native text below threshold, falling back to OCR")

	recognized, err := e.ocrText(ctx, doc)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(recognized) != "" {
		return recognized, nil
	}
	if strings.TrimSpace(native) != "" {
		// OCR found nothing but the thin native layer is still usable
		return native, nil
	}
	return "", ErrNoText
}

// nativeText concatenates the embedded text layer of every page
func (e *Extractor) nativeText(doc pdfDocument) string {
	var pages []string
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			e.logger.Debug().Err(err).Int("page", page).Msg("Native text extraction failed for page")
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n")
}

// ocrText renders each page to PNG and runs it through the OCR engine
func (e *Extractor) ocrText(ctx context.Context, doc pdfDocument) (string, error) {
	var pages []string
	for page := 0; page < doc.NumPage(); page++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		img, err := doc.Image(page)
		if err != nil {
			e.logger.Warn().Err(err).Int("page", page).Msg("Failed to render page for OCR")
			continue
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			e.logger.Warn().Err(err).Int("page", page).Msg("Failed to encode page image")
			continue
		}

		text, err := e.ocr.Recognize(ctx, buf.Bytes())
		if err != nil {
			e.logger.Warn().Err(err).Int("page", page).Msg("OCR failed for page")
			continue
		}

		observability.RecordOCRPage()
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}
