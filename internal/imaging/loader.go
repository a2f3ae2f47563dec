package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

var (
	// ErrUnsupportedFormat is returned when the content is not a known
	// raster format or a PDF.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrImageTooLarge is returned when the upload exceeds the byte limit or
	// the decoded image exceeds the side limit.
	ErrImageTooLarge = errors.New("image too large")
)

var pdfMagic = []byte("%PDF")

// pointsPerInch is the PDF user-space unit.
const pointsPerInch = 72.0

// Limits bounds what Decode accepts.
type Limits struct {
	// MaxSize is the largest accepted upload in bytes. Zero disables the check.
	MaxSize int64

	// MaxSide is the largest accepted width or height in pixels. Zero
	// disables the check.
	MaxSide int

	// PDFDPI is the rasterization resolution for PDF uploads.
	PDFDPI int
}

// DefaultLimits returns a 20 MiB upload limit, an 8000 px side limit and
// 150 DPI PDF rendering.
func DefaultLimits() Limits {
	return Limits{
		MaxSize: 20 << 20,
		MaxSide: 8000,
		PDFDPI:  150,
	}
}

// ImageInfo contains metadata about a decoded upload.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected format: "png", "jpeg", "gif", "bmp", "tiff",
	// "webp" or "pdf". Detection is based on file contents.
	Format string `json:"format"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// SizeBytes is the size of the encoded upload.
	SizeBytes int64 `json:"size_bytes"`

	// Name is the client-supplied file name, if any.
	Name string `json:"name,omitempty"`
}

// Decoded is an upload ready for detection.
type Decoded struct {
	Image image.Image
	Info  ImageInfo
}

// Decode reads an upload and decodes it.
//
// Parameters:
//   - r: The encoded upload. It is read to the end, or to MaxSize+1 bytes.
//   - name: Client-supplied file name, recorded in ImageInfo only.
//   - limits: Size limits and PDF resolution.
//
// # Errors
//
//   - ErrImageTooLarge if the upload exceeds MaxSize or a side exceeds MaxSide
//   - ErrUnsupportedFormat if the content is neither a registered raster
//     format nor a PDF
//   - Wrapped decoder errors for corrupt files
func Decode(r io.Reader, name string, limits Limits) (*Decoded, error) {
	src := r
	if limits.MaxSize > 0 {
		src = io.LimitReader(r, limits.MaxSize+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if limits.MaxSize > 0 && int64(len(data)) > limits.MaxSize {
		return nil, fmt.Errorf("%w: upload exceeds %d bytes", ErrImageTooLarge, limits.MaxSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", ErrUnsupportedFormat)
	}

	var (
		img    image.Image
		format string
	)
	if bytes.HasPrefix(data, pdfMagic) {
		img, err = decodePDF(data, limits)
		format = "pdf"
	} else {
		img, format, err = decodeRaster(data, limits)
	}
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if err := checkSide(bounds.Dx(), bounds.Dy(), limits.MaxSide); err != nil {
		return nil, err
	}

	return &Decoded{
		Image: img,
		Info: ImageInfo{
			Width:     bounds.Dx(),
			Height:    bounds.Dy(),
			Format:    format,
			HasAlpha:  hasAlpha(img),
			SizeBytes: int64(len(data)),
			Name:      name,
		},
	}, nil
}

// Load opens the file at path and decodes it.
func Load(path string, limits Limits) (*Decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f, path, limits)
}

// decodeRaster checks the header dimensions before decoding the pixels so an
// oversized image is rejected without allocating it.
func decodeRaster(data []byte, limits Limits) (image.Image, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return nil, "", ErrUnsupportedFormat
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image header: %w", err)
	}
	if err := checkSide(cfg.Width, cfg.Height, limits.MaxSide); err != nil {
		return nil, "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

func decodePDF(data []byte, limits Limits) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("%w: pdf has no pages", ErrUnsupportedFormat)
	}

	dpi := limits.PDFDPI
	if dpi <= 0 {
		dpi = DefaultLimits().PDFDPI
	}

	bound, err := doc.Bound(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf page size: %w", err)
	}
	scale := float64(dpi) / pointsPerInch
	w := int(float64(bound.Dx()) * scale)
	h := int(float64(bound.Dy()) * scale)
	if err := checkSide(w, h, limits.MaxSide); err != nil {
		return nil, err
	}

	img, err := doc.ImageDPI(0, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("failed to render pdf page: %w", err)
	}
	return img, nil
}

func checkSide(w, h, maxSide int) error {
	if maxSide > 0 && (w > maxSide || h > maxSide) {
		return fmt.Errorf("%w: %dx%d exceeds %d px per side", ErrImageTooLarge, w, h, maxSide)
	}
	return nil
}

func hasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.Alpha, *image.Alpha16:
		return true
	}
	return false
}
