package mapview

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"image/png"
	"strconv"
	"strings"

	"github.com/ironsheep/store-map-mcp/internal/detection"
)

// SVGOptions controls SVG output.
type SVGOptions struct {
	// EmbedImage inlines the floor plan as a PNG data URI. Without it the
	// document holds only the overlay, for stacking over an <img>.
	EmbedImage bool
}

// SVG renders the overlay as a standalone SVG document. Each shelf is a
// <g data-nid="..."> group so a browser host can wire its own click handlers.
func (o *Overlay) SVG(opts SVGOptions) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		o.width, o.height, o.width, o.height)
	buf.WriteByte('\n')

	if opts.EmbedImage && o.image != nil {
		var img bytes.Buffer
		if err := png.Encode(&img, o.image); err != nil {
			return nil, fmt.Errorf("failed to encode floor plan: %w", err)
		}
		fmt.Fprintf(&buf, `<image href="data:image/png;base64,%s" x="0" y="0" width="%d" height="%d" style="pointer-events:none"/>`,
			base64.StdEncoding.EncodeToString(img.Bytes()), o.width, o.height)
		buf.WriteByte('\n')
	}

	for _, d := range o.shelves {
		hex := paletteHex(d.slot)
		cx, cy := labelAnchor(d.shelf.BoundingBox)

		fmt.Fprintf(&buf, `<g class="shelf" data-nid="%s">`, escape(d.shelf.NID))
		fmt.Fprintf(&buf, `<polygon points="%s" fill="%s%02x" stroke="%s" stroke-width="%s" style="cursor:pointer"/>`,
			polygonPoints(d.shelf.Points), hex, FillAlpha, hex, formatFloat(strokeWidth))
		fmt.Fprintf(&buf, `<text x="%s" y="%s" font-size="%d" fill="#000" font-weight="bold" text-anchor="middle" dominant-baseline="middle" style="pointer-events:none">%s</text>`,
			formatFloat(cx), formatFloat(cy), labelFontSize, escape(d.shelf.ShelfName))
		buf.WriteString("</g>\n")
	}

	for _, p := range o.pins {
		fmt.Fprintf(&buf, `<circle class="pin" cx="%d" cy="%d" r="%s" fill="red" stroke="black" stroke-width="%s"/>`,
			p.X, p.Y, formatFloat(pinRadius), formatFloat(pinStroke))
		buf.WriteByte('\n')
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func polygonPoints(points []detection.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
	}
	return strings.Join(parts, " ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func escape(s string) string {
	var b strings.Builder
	// xml.EscapeText only fails when the writer does.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
