package vision

import (
	"image"
	"image/color"
	"image/draw"
)

// Contour is an ordered, implicitly closed sequence of pixel coordinates.
type Contour []image.Point

// Backend is the set of primitives the shape extractor drives. Implementations
// must be safe for concurrent use by independent callers.
type Backend interface {
	// Name identifies the implementation in logs and status output.
	Name() string

	// Grayscale converts img to 8-bit luminance.
	Grayscale(img image.Image) (*image.Gray, error)

	// GaussianBlur smooths gray with a kernel x kernel Gaussian whose sigma is
	// derived from the kernel size. kernel must be odd and positive.
	GaussianBlur(gray *image.Gray, kernel int) (*image.Gray, error)

	// Canny returns a binary edge map (255 = edge) using hysteresis thresholds
	// low and high on the gradient magnitude.
	Canny(gray *image.Gray, low, high float64) (*image.Gray, error)

	// FindContours returns every border in edges (outer borders and holes,
	// full hierarchy retrieval) with runs of collinear points compressed to
	// their end points.
	FindContours(edges *image.Gray) ([]Contour, error)

	// ContourArea returns the absolute area enclosed by c.
	ContourArea(c Contour) float64

	// ArcLength returns the perimeter of c, including the closing segment
	// when closed is true.
	ArcLength(c Contour, closed bool) float64

	// ApproxPolyDP simplifies c with the Douglas-Peucker algorithm. Output
	// vertices are a subset of the input vertices.
	ApproxPolyDP(c Contour, epsilon float64, closed bool) Contour

	// IsContourConvex reports whether c is a convex polygon.
	IsContourConvex(c Contour) bool
}

// isConvexPolygon reports whether the closed polygon pts turns the same way at
// every vertex. Collinear vertices are ignored; fewer than three vertices is
// not a polygon.
func isConvexPolygon(pts Contour) bool {
	n := len(pts)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		c := pts[(i+2)%n]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}

// compressChain keeps only the points of a closed pixel chain where the step
// direction changes, matching simple chain approximation.
func compressChain(pts Contour) Contour {
	n := len(pts)
	if n <= 2 {
		out := make(Contour, n)
		copy(out, pts)
		return out
	}
	out := make(Contour, 0, n/4+4)
	for i := 0; i < n; i++ {
		prev := pts[(i-1+n)%n]
		cur := pts[i]
		next := pts[(i+1)%n]
		if cur.Sub(prev) != next.Sub(cur) {
			out = append(out, cur)
		}
	}
	if len(out) == 0 {
		// A closed chain whose steps never turn cannot exist, but keep the
		// start point rather than returning nothing.
		out = append(out, pts[0])
	}
	return out
}

// asGray returns img as *image.Gray, converting when necessary. The returned
// image always has its origin at (0, 0).
func asGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if _, ok := img.(*image.Gray); ok {
		draw.Draw(g, g.Rect, img, b.Min, draw.Src)
		return g
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g.SetGray(x, y, color.GrayModel.Convert(img.At(x+b.Min.X, y+b.Min.Y)).(color.Gray))
		}
	}
	return g
}
