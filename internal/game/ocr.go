package game

import (
	"bytes"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"go-image-similarity/internal/raster"
)

// TextExtractor pulls visible text out of an image. Implementations may
// return an empty string when no text is present.
type TextExtractor interface {
	ExtractText(img *raster.Image) (string, error)
}

// tesseractExtractor runs OCR through the system tesseract engine.
type tesseractExtractor struct {
	language string
}

// NewTesseractExtractor creates an OCR extractor. Language defaults to
// English when empty.
func NewTesseractExtractor(language string) TextExtractor {
	if language == "" {
		language = "eng"
	}
	return &tesseractExtractor{language: language}
}

func (t *tesseractExtractor) ExtractText(img *raster.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.ToImage()); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return "", err
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", err
	}
	return client.Text()
}

// EmbeddedTextMatch OCRs the candidate image and scores any extracted
// text against the target prompt. Images with no legible text score 0.
func EmbeddedTextMatch(extractor TextExtractor, img *raster.Image, targetPrompt string) float64 {
	if extractor == nil {
		return 0
	}
	text, err := extractor.ExtractText(img)
	if err != nil || text == "" {
		return 0
	}
	return PromptMatch(text, targetPrompt)
}
