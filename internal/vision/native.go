package vision

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// NativeBackend implements Backend in pure Go. It holds no state and needs no
// native libraries, which also makes it the backend used by tests.
type NativeBackend struct{}

// NewNativeBackend returns the pure-Go backend.
func NewNativeBackend() *NativeBackend {
	return &NativeBackend{}
}

func (NativeBackend) Name() string { return "native" }

func (NativeBackend) Grayscale(img image.Image) (*image.Gray, error) {
	if img == nil {
		return nil, errors.New("grayscale: nil image")
	}
	// BT.601 luma, the weights OpenCV uses for its gray conversion.
	return asGray(effect.GrayscaleWithWeights(img, 0.299, 0.587, 0.114)), nil
}

func (NativeBackend) GaussianBlur(gray *image.Gray, kernel int) (*image.Gray, error) {
	if kernel <= 0 || kernel%2 == 0 {
		return nil, fmt.Errorf("gaussian blur: kernel size must be odd and positive, got %d", kernel)
	}
	if kernel == 1 {
		return asGray(gray), nil
	}
	k := gaussianKernel(kernel)
	opts := &convolution.Options{Wrap: false}
	rows := convolution.Convolve(gray, k, opts)
	return asGray(convolution.Convolve(rows, k.Transposed(), opts)), nil
}

// smallGaussianKernels are the fixed taps used for sizes up to 7 when sigma
// is derived from the size.
var smallGaussianKernels = map[int][]float64{
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// gaussianKernel returns a normalized size x 1 Gaussian kernel with sigma
// 0.3*((size-1)*0.5-1)+0.8.
func gaussianKernel(size int) *convolution.Kernel {
	k := convolution.NewKernel(size, 1)
	if taps, ok := smallGaussianKernels[size]; ok {
		copy(k.Matrix, taps)
		return k
	}

	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	center := float64(size-1) / 2
	var sum float64
	for i := range k.Matrix {
		d := float64(i) - center
		k.Matrix[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k.Matrix[i]
	}
	for i := range k.Matrix {
		k.Matrix[i] /= sum
	}
	return k
}

func (NativeBackend) Canny(gray *image.Gray, low, high float64) (*image.Gray, error) {
	if low > high {
		return nil, fmt.Errorf("canny: low threshold %v exceeds high threshold %v", low, high)
	}
	return canny(gray, low, high), nil
}

func (NativeBackend) FindContours(edges *image.Gray) ([]Contour, error) {
	borders := traceBorders(edges)
	contours := make([]Contour, len(borders))
	for i, b := range borders {
		contours[i] = compressChain(b)
	}
	return contours, nil
}

func (NativeBackend) ContourArea(c Contour) float64 {
	if len(c) < 3 {
		return 0
	}
	return math.Abs(planar.Area(closedRing(c)))
}

func (NativeBackend) ArcLength(c Contour, closed bool) float64 {
	if len(c) < 2 {
		return 0
	}
	ls := toLineString(c)
	if closed {
		ls = append(ls, ls[0])
	}
	return planar.Length(ls)
}

// ApproxPolyDP splits a closed contour at the vertex farthest from its first
// point and simplifies both halves, so the result does not depend on a
// degenerate first-to-last segment.
func (NativeBackend) ApproxPolyDP(c Contour, epsilon float64, closed bool) Contour {
	if len(c) < 3 {
		out := make(Contour, len(c))
		copy(out, c)
		return out
	}
	dp := simplify.DouglasPeucker(epsilon)

	if !closed {
		return fromLineString(dp.LineString(toLineString(c)))
	}

	far := 0
	best := -1
	for i, p := range c {
		d := p.Sub(c[0])
		if dist := d.X*d.X + d.Y*d.Y; dist > best {
			best = dist
			far = i
		}
	}
	if far == 0 {
		return Contour{c[0]}
	}

	first := toLineString(c[:far+1])
	second := append(toLineString(c[far:]), orb.Point{float64(c[0].X), float64(c[0].Y)})

	a := fromLineString(dp.LineString(first))
	b := fromLineString(dp.LineString(second))

	// Drop the shared end points: a ends at c[far], b ends at c[0].
	out := make(Contour, 0, len(a)+len(b))
	out = append(out, a...)
	if len(b) > 2 {
		out = append(out, b[1:len(b)-1]...)
	}
	return out
}

func (NativeBackend) IsContourConvex(c Contour) bool {
	return isConvexPolygon(c)
}

func toLineString(c Contour) orb.LineString {
	ls := make(orb.LineString, len(c))
	for i, p := range c {
		ls[i] = orb.Point{float64(p.X), float64(p.Y)}
	}
	return ls
}

func fromLineString(ls orb.LineString) Contour {
	c := make(Contour, len(ls))
	for i, p := range ls {
		c[i] = image.Pt(int(math.Round(p[0])), int(math.Round(p[1])))
	}
	return c
}

func closedRing(c Contour) orb.Ring {
	r := orb.Ring(toLineString(c))
	if r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return r
}
