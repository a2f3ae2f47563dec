package mapview

import (
	"errors"
	"fmt"
	"image/png"
	"io"
)

// ErrWebPUnavailable is returned by EncodeWebP in builds without cgo.
var ErrWebPUnavailable = errors.New("webp encoding not available in this build")

// DefaultWebPQuality is the lossy WebP quality used for exports.
const DefaultWebPQuality = 90

// Format is an output encoding.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ParseFormat validates a format name. An empty name means SVG.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return FormatSVG, nil
	case FormatSVG, FormatPNG, FormatWebP:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown render format %q (want svg, png or webp)", s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/svg+xml"
	}
}

// EncodePNG writes the rasterized overlay as PNG.
func (o *Overlay) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, o.Raster()); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// EncodeWebP writes the rasterized overlay as lossy WebP.
func (o *Overlay) EncodeWebP(w io.Writer, quality float32) error {
	if quality <= 0 || quality > 100 {
		quality = DefaultWebPQuality
	}
	return encodeWebP(w, o.Raster(), quality)
}

// Encode writes the overlay in format f. SVG output embeds the floor plan.
func (o *Overlay) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatPNG:
		return o.EncodePNG(w)
	case FormatWebP:
		return o.EncodeWebP(w, DefaultWebPQuality)
	case FormatSVG:
		doc, err := o.SVG(SVGOptions{EmbedImage: true})
		if err != nil {
			return err
		}
		_, err = w.Write(doc)
		return err
	}
	return fmt.Errorf("unknown render format %q", f)
}
