//go:build !cgo

package mapview

import (
	"image"
	"io"
)

func encodeWebP(io.Writer, image.Image, float32) error {
	return ErrWebPUnavailable
}
