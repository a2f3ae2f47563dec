package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/store-map-mcp/internal/imaging"
)

// ErrOCRUnavailable is returned when this build has no Tesseract support.
var ErrOCRUnavailable = errors.New("ocr not available in this build")

// DefaultScale is the upscale factor applied to shelf crops.
const DefaultScale = 2.0

// minRegionSide skips regions too thin to hold a line of text.
const minRegionSide = 8

// Reader produces shelf text hints.
type Reader struct {
	language string
	scale    float64
}

// NewReader creates a reader for a Tesseract language code such as "eng".
func NewReader(language string) *Reader {
	if language == "" {
		language = "eng"
	}
	return &Reader{language: language, scale: DefaultScale}
}

// Language returns the Tesseract language code.
func (r *Reader) Language() string {
	return r.language
}

// TextHint crops region out of img, upscales it and returns the recognized
// text with whitespace runs collapsed to single spaces.
func (r *Reader) TextHint(ctx context.Context, img image.Image, region image.Rectangle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if region.Dx() < minRegionSide || region.Dy() < minRegionSide {
		return "", nil
	}

	cropped, err := imaging.CropRegion(img, region, r.scale)
	if err != nil {
		return "", fmt.Errorf("failed to crop shelf: %w", err)
	}

	text, err := recognize(cropped, r.language)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(text), " "), nil
}

// OCRInfo contains information about the OCR subsystem.
type OCRInfo struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
	Backend   string `json:"backend"`
	Language  string `json:"language"`
}

// Info reports whether recognition works in this build.
func (r *Reader) Info() OCRInfo {
	info := OCRInfo{Backend: backendName, Language: r.language}
	version, err := tesseractVersion()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Available = true
	info.Version = version
	return info
}
