package mapview

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ironsheep/store-map-mcp/internal/detection"
)

// Raster draws the overlay onto a copy of the floor plan. Labels use a fixed
// 7x13 bitmap face, so they are smaller than in the SVG output.
func (o *Overlay) Raster() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, o.width, o.height))
	if o.image != nil {
		draw.Draw(dst, dst.Bounds(), o.image, o.image.Bounds().Min, draw.Src)
	}
	if o.width == 0 || o.height == 0 {
		return dst
	}

	z := vector.NewRasterizer(o.width, o.height)

	for _, d := range o.shelves {
		fillPolygon(z, dst, d.shelf.Points, paletteColor(d.slot, FillAlpha))
		strokePolygon(z, dst, d.shelf.Points, strokeWidth, paletteColor(d.slot, 0xff))
	}
	for _, d := range o.shelves {
		drawLabel(dst, d.shelf.BoundingBox, d.shelf.ShelfName)
	}
	for _, p := range o.pins {
		drawPin(dst, p)
	}
	return dst
}

func fillPolygon(z *vector.Rasterizer, dst *image.RGBA, points []detection.Point, c color.Color) {
	z.Reset(dst.Bounds().Dx(), dst.Bounds().Dy())
	z.MoveTo(float32(points[0].X), float32(points[0].Y))
	for _, p := range points[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// strokePolygon draws each edge as a rectangle of the given width centered on
// the edge and extended by half the width at both ends, which squares off the
// corners.
func strokePolygon(z *vector.Rasterizer, dst *image.RGBA, points []detection.Point, width float64, c color.Color) {
	src := image.NewUniform(c)
	half := width / 2
	for i := range points {
		a := points[i]
		b := points[(i+1)%len(points)]

		dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		// Unit direction and normal.
		ux, uy := dx/length, dy/length
		nx, ny := -uy, ux

		ax, ay := float64(a.X)-ux*half, float64(a.Y)-uy*half
		bx, by := float64(b.X)+ux*half, float64(b.Y)+uy*half

		z.Reset(dst.Bounds().Dx(), dst.Bounds().Dy())
		z.MoveTo(float32(ax+nx*half), float32(ay+ny*half))
		z.LineTo(float32(bx+nx*half), float32(by+ny*half))
		z.LineTo(float32(bx-nx*half), float32(by-ny*half))
		z.LineTo(float32(ax-nx*half), float32(ay-ny*half))
		z.ClosePath()
		z.Draw(dst, dst.Bounds(), src, image.Point{})
	}
}

// drawLabel centers text on the box.
func drawLabel(dst *image.RGBA, box detection.Box, text string) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	cx, cy := labelAnchor(box)
	width := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	baseline := cy + float64(metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelInk),
		Face: face,
		Dot:  fixed.P(int(math.Round(cx))-width/2, int(math.Round(baseline))),
	}
	d.DrawString(text)
}

// drawPin draws a filled circle with a border straddling its radius.
func drawPin(dst *image.RGBA, p Pin) {
	outer := pinRadius + pinStroke/2
	inner := pinRadius - pinStroke/2
	r := int(math.Ceil(outer))

	bounds := dst.Bounds()
	for y := p.Y - r; y <= p.Y+r; y++ {
		for x := p.X - r; x <= p.X+r; x++ {
			if !image.Pt(x, y).In(bounds) {
				continue
			}
			dist := math.Hypot(float64(x-p.X), float64(y-p.Y))
			switch {
			case dist <= inner:
				dst.Set(x, y, pinFill)
			case dist <= outer:
				dst.Set(x, y, pinBorder)
			}
		}
	}
}
