// Package ocr reads the text printed inside detected shelves using Tesseract.
//
// Text read here is a hint shown next to the shelf; it never replaces the name
// that comes from the shelf registry.
//
// # Prerequisites
//
// Recognition needs cgo on Linux and the Tesseract libraries with language
// data for the configured language:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//
// Other builds compile a stub whose reader reports ErrOCRUnavailable.
//
// # Preprocessing
//
// Shelf labels are small relative to a floor plan. Each region is cropped and
// upscaled before recognition, and recognition runs in single-block page
// segmentation mode.
package ocr
