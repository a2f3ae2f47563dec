//go:build cgo

package mapview

import (
	"fmt"
	"image"
	"io"

	"github.com/chai2010/webp"
)

func encodeWebP(w io.Writer, img image.Image, quality float32) error {
	if err := webp.Encode(w, img, &webp.Options{Lossless: false, Quality: quality}); err != nil {
		return fmt.Errorf("failed to encode webp: %w", err)
	}
	return nil
}
