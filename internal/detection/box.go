package detection

import "image"

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Box is an axis-aligned bounding box. Width and Height are the extents
// between the extreme vertices, so a box around a single point is 0x0.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BoxOf returns the bounding box of the given vertices. It returns the zero
// Box for an empty slice.
func BoxOf(points []Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Area returns Width x Height.
func (b Box) Area() int {
	return b.Width * b.Height
}

// Right returns X + Width.
func (b Box) Right() int { return b.X + b.Width }

// Bottom returns Y + Height.
func (b Box) Bottom() int { return b.Y + b.Height }

// Rect converts the box to an image.Rectangle with the same corners.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.Right(), b.Bottom())
}

// Contains reports whether inner lies entirely within b. Edges may touch.
func (b Box) Contains(inner Box) bool {
	return inner.X >= b.X &&
		inner.Y >= b.Y &&
		inner.Right() <= b.Right() &&
		inner.Bottom() <= b.Bottom()
}

// IoU returns the intersection-over-union of two boxes. Boxes whose overlap
// has zero or negative width or height score 0.
func IoU(a, b Box) float64 {
	interW := min(a.Right(), b.Right()) - max(a.X, b.X)
	interH := min(a.Bottom(), b.Bottom()) - max(a.Y, b.Y)
	if interW <= 0 || interH <= 0 {
		return 0
	}
	inter := interW * interH
	union := a.Area() + b.Area() - inter
	return float64(inter) / float64(union)
}
