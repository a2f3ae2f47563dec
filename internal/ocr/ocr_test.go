package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawText draws text on an image using basicfont
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// createShelfImage draws a labeled shelf outline on a white map.
func createShelfImage(label string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for x := 20; x <= 180; x++ {
		img.Set(x, 20, color.Black)
		img.Set(x, 80, color.Black)
	}
	for y := 20; y <= 80; y++ {
		img.Set(20, y, color.Black)
		img.Set(180, y, color.Black)
	}
	drawText(img, 70, 55, label, color.Black)
	return img
}

func TestNewReader_DefaultLanguage(t *testing.T) {
	if got := NewReader("").Language(); got != "eng" {
		t.Errorf("Language: got %q, want eng", got)
	}
	if got := NewReader("deu").Language(); got != "deu" {
		t.Errorf("Language: got %q, want deu", got)
	}
}

func TestTextHint_TinyRegion(t *testing.T) {
	img := createShelfImage("MILK")

	text, err := NewReader("eng").TextHint(context.Background(), img, image.Rect(10, 10, 14, 60))
	if err != nil {
		t.Fatalf("TextHint failed: %v", err)
	}
	if text != "" {
		t.Errorf("expected no text for a thin region, got %q", text)
	}
}

func TestTextHint_RegionOutsideImage(t *testing.T) {
	img := createShelfImage("MILK")

	_, err := NewReader("eng").TextHint(context.Background(), img, image.Rect(500, 500, 600, 600))
	if err == nil {
		t.Fatal("expected error for a region outside the image")
	}
}

func TestTextHint_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader("eng").TextHint(ctx, createShelfImage("MILK"), image.Rect(20, 20, 180, 80))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestTextHint_ReadsLabel(t *testing.T) {
	img := createShelfImage("MILK")

	text, err := NewReader("eng").TextHint(context.Background(), img, image.Rect(22, 22, 179, 79))
	if errors.Is(err, ErrOCRUnavailable) {
		t.Skip("OCR not available in this build")
	}
	if err != nil {
		t.Skipf("Tesseract not usable: %v", err)
	}
	t.Logf("Extracted text: %q", text)
}

func TestInfo(t *testing.T) {
	info := NewReader("eng").Info()
	if info.Backend == "" {
		t.Error("Backend should be set")
	}
	if info.Language != "eng" {
		t.Errorf("Language: got %q, want eng", info.Language)
	}
	if !info.Available && info.Error == "" {
		t.Error("unavailable OCR should explain why")
	}
}
