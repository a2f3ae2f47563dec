package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// CropResult contains the cropped image data
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropRegion extracts region from img and optionally rescales it. The region
// is clipped to the image bounds; a region that does not overlap the image
// is an error.
func CropRegion(img image.Image, region image.Rectangle, scale float64) (*image.NRGBA, error) {
	bounds := img.Bounds()
	clipped := region.Canon().Intersect(bounds)
	if clipped.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", region, bounds)
	}

	cropped := imaging.Crop(img, clipped)

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %v collapses %v to nothing", scale, clipped)
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	return cropped, nil
}

// Crop extracts a region and returns it as a base64 PNG.
func Crop(img image.Image, region image.Rectangle, scale float64) (*CropResult, error) {
	cropped, err := CropRegion(img, region, scale)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
