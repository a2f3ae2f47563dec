package mapview

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is the shelf color cycle.
var Palette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231", "#911eb4",
	"#46f0f0", "#f032e6", "#bcf60c", "#fabebe", "#008080", "#e6beff",
}

// FillAlpha is the opacity of shelf fills.
const FillAlpha = 0x33

const (
	strokeWidth   = 2.0
	pinRadius     = 8.0
	pinStroke     = 2.0
	labelFontSize = 14
)

var (
	pinFill   = color.NRGBA{R: 0xff, A: 0xff}
	pinBorder = color.NRGBA{A: 0xff}
	labelInk  = color.NRGBA{A: 0xff}
)

// paletteHex returns the palette entry for the shelf at position i.
func paletteHex(i int) string {
	return Palette[i%len(Palette)]
}

// paletteColor returns the palette entry for position i with alpha a.
func paletteColor(i int, a uint8) color.NRGBA {
	c, err := colorful.Hex(paletteHex(i))
	if err != nil {
		// Palette entries are constants; this only guards edits to them.
		return color.NRGBA{A: a}
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}
