package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// createInMemoryImage creates a solid color image
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates red, green, blue and white quadrants
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			switch {
			case x < width/2 && y < height/2:
				c = color.RGBA{255, 0, 0, 255}
			case y < height/2:
				c = color.RGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.RGBA{0, 0, 255, 255}
			default:
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCropRegion(t *testing.T) {
	img := createPatternImage(100, 100)

	cropped, err := CropRegion(img, image.Rect(50, 0, 100, 50), 1.0)
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	if cropped.Bounds().Dx() != 50 || cropped.Bounds().Dy() != 50 {
		t.Errorf("dimensions: got %v, want 50x50", cropped.Bounds())
	}

	// Top-right quadrant is green.
	r, g, b, _ := cropped.At(25, 25).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("cropped color: got (%d,%d,%d), want (0,255,0)", r>>8, g>>8, b>>8)
	}
}

func TestCropRegion_ClipsToBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	cropped, err := CropRegion(img, image.Rect(80, 80, 150, 150), 1.0)
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	if cropped.Bounds().Dx() != 20 || cropped.Bounds().Dy() != 20 {
		t.Errorf("dimensions: got %v, want 20x20", cropped.Bounds())
	}
}

func TestCropRegion_Invalid(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name   string
		region image.Rectangle
		scale  float64
	}{
		{"outside", image.Rect(200, 200, 300, 300), 1.0},
		{"zero area", image.Rect(50, 50, 50, 50), 1.0},
		{"negative side", image.Rect(-50, -50, -10, -10), 1.0},
		{"scale collapses", image.Rect(0, 0, 2, 2), 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CropRegion(img, tt.region, tt.scale); err == nil {
				t.Error("CropRegion should fail")
			}
		})
	}
}

func TestCropRegion_WithScale(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	cropped, err := CropRegion(img, image.Rect(0, 0, 50, 30), 2.0)
	if err != nil {
		t.Fatalf("CropRegion with scale failed: %v", err)
	}
	if cropped.Bounds().Dx() != 100 || cropped.Bounds().Dy() != 60 {
		t.Errorf("scaled dimensions: got %v, want 100x60", cropped.Bounds())
	}
}

func TestCrop(t *testing.T) {
	img := createPatternImage(100, 100)

	result, err := Crop(img, image.Rect(0, 0, 50, 50), 1.0)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if result.Width != 50 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	decoded, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	croppedImg, err := png.Decode(bytes.NewReader(decoded))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}

	// Top-left quadrant is red.
	r, g, b, _ := croppedImg.At(25, 25).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("cropped image color: got (%d,%d,%d), want (255,0,0)", r>>8, g>>8, b>>8)
	}
}
