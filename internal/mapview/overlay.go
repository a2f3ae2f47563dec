package mapview

import (
	"image"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"

	"github.com/ironsheep/store-map-mcp/internal/detection"
)

// Pin is a user-placed marker in image pixel coordinates.
type Pin struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Callbacks receive routed clicks. Either may be nil.
type Callbacks struct {
	// OnShelfClick receives the nid of the clicked shelf.
	OnShelfClick func(nid string)

	// OnMapClick receives a click that hit no shelf while pin mode is on.
	OnMapClick func(x, y int)
}

// ClickTarget says where a click was routed.
type ClickTarget string

const (
	ClickNone  ClickTarget = "none"
	ClickShelf ClickTarget = "shelf"
	ClickMap   ClickTarget = "map"
)

// ClickResult describes a routed click.
type ClickResult struct {
	Target ClickTarget `json:"target"`
	NID    string      `json:"nid,omitempty"`
	X      int         `json:"x"`
	Y      int         `json:"y"`
}

// drawnShelf is a shelf that can be drawn, with its palette slot.
type drawnShelf struct {
	shelf detection.Shelf
	slot  int
	ring  orb.Ring
}

// Overlay is a floor plan with its shelves and pins, ready to render or to
// route clicks. It is immutable once built.
type Overlay struct {
	image   image.Image
	width   int
	height  int
	shelves []drawnShelf
	pins    []Pin
}

// Render builds an overlay. Shelves with fewer than three vertices are
// logged and left out of drawing and hit testing.
func Render(img image.Image, shelves []detection.Shelf, pins []Pin, logger *zap.Logger) *Overlay {
	if logger == nil {
		logger = zap.NewNop()
	}

	o := &Overlay{image: img, pins: append([]Pin(nil), pins...)}
	if img != nil {
		o.width = img.Bounds().Dx()
		o.height = img.Bounds().Dy()
	}

	for i, s := range shelves {
		if len(s.Points) < 3 {
			logger.Warn("skipping invalid shelf",
				zap.String("nid", s.NID),
				zap.Int("vertices", len(s.Points)))
			continue
		}
		o.shelves = append(o.shelves, drawnShelf{shelf: s, slot: i, ring: toRing(s.Points)})
	}
	return o
}

// Size returns the overlay dimensions in pixels.
func (o *Overlay) Size() (int, int) {
	return o.width, o.height
}

// Drawn returns the nids of the shelves that will be drawn, in order.
func (o *Overlay) Drawn() []string {
	nids := make([]string, len(o.shelves))
	for i, d := range o.shelves {
		nids[i] = d.shelf.NID
	}
	return nids
}

// ShelfAt returns the nid of the topmost drawn shelf whose polygon contains
// (x, y). Points on a polygon edge count as inside.
func (o *Overlay) ShelfAt(x, y int) (string, bool) {
	p := orb.Point{float64(x), float64(y)}
	for i := len(o.shelves) - 1; i >= 0; i-- {
		d := o.shelves[i]
		if !d.ring.Bound().Contains(p) {
			continue
		}
		if planar.RingContains(d.ring, p) {
			return d.shelf.NID, true
		}
	}
	return "", false
}

// pinAt reports whether (x, y) falls on a drawn pin, border included.
func (o *Overlay) pinAt(x, y int) bool {
	outer := pinRadius + pinStroke/2
	for _, p := range o.pins {
		dx, dy := float64(x-p.X), float64(y-p.Y)
		if dx*dx+dy*dy <= outer*outer {
			return true
		}
	}
	return false
}

// Click routes a click at (x, y). Pins are drawn above shelves and have no
// handler of their own, so a click on a pin skips the shelves beneath it. A
// hit shelf receives OnShelfClick and the click stops there. Otherwise, with
// pinMode on, OnMapClick receives the coordinates. Otherwise nothing is
// called.
func (o *Overlay) Click(x, y int, pinMode bool, cb Callbacks) ClickResult {
	if !o.pinAt(x, y) {
		if nid, ok := o.ShelfAt(x, y); ok {
			if cb.OnShelfClick != nil {
				cb.OnShelfClick(nid)
			}
			return ClickResult{Target: ClickShelf, NID: nid, X: x, Y: y}
		}
	}
	if pinMode {
		if cb.OnMapClick != nil {
			cb.OnMapClick(x, y)
		}
		return ClickResult{Target: ClickMap, X: x, Y: y}
	}
	return ClickResult{Target: ClickNone, X: x, Y: y}
}

func toRing(points []detection.Point) orb.Ring {
	r := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		r = append(r, orb.Point{float64(p.X), float64(p.Y)})
	}
	return append(r, r[0])
}

// labelAnchor is the center of the shelf's bounding box.
func labelAnchor(b detection.Box) (float64, float64) {
	return float64(b.X) + float64(b.Width)/2, float64(b.Y) + float64(b.Height)/2
}
