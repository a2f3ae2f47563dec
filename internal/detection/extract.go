package detection

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/store-map-mcp/internal/vision"
)

// ErrEmptyImage is returned when the input raster has zero width or height.
var ErrEmptyImage = errors.New("image has zero width or height")

// CandidateShape is one closed contour that survived the area filter,
// approximated to a polygon.
type CandidateShape struct {
	// ID is the extraction order, starting at 0.
	ID int `json:"id"`

	// Points are the vertices of the approximated polygon.
	Points []Point `json:"points"`

	// Area is the area of the original contour in square pixels.
	Area float64 `json:"area"`

	// BoundingBox spans the approximated vertices.
	BoundingBox Box `json:"bounding_box"`

	// IsConvex reports whether the approximated polygon is convex.
	IsConvex bool `json:"is_convex"`
}

// ExtractOptions holds the extraction thresholds.
type ExtractOptions struct {
	// BlurKernel is the side of the square Gaussian kernel. Must be odd.
	BlurKernel int

	// CannyLow and CannyHigh are the hysteresis thresholds.
	CannyLow  float64
	CannyHigh float64

	// MinArea rejects contours smaller than this many square pixels.
	MinArea float64

	// EpsilonRatio is the Douglas-Peucker tolerance as a fraction of the
	// contour's closed arc length.
	EpsilonRatio float64
}

// DefaultExtractOptions returns a 5x5 blur, Canny 50/150, a 100 px² area floor
// and a 1% approximation tolerance.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		BlurKernel:   5,
		CannyLow:     50,
		CannyHigh:    150,
		MinArea:      100,
		EpsilonRatio: 0.01,
	}
}

// Extractor finds candidate shapes in a raster with a vision backend.
type Extractor struct {
	backend vision.Backend
	opts    ExtractOptions
	logger  *zap.Logger
}

// NewExtractor creates an extractor. A nil logger discards output.
func NewExtractor(backend vision.Backend, opts ExtractOptions, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{backend: backend, opts: opts, logger: logger}
}

// Extract runs the edge and contour pipeline over img and returns the
// candidate shapes in contour discovery order.
//
// # Algorithm
//
//  1. Convert to grayscale and blur with the configured kernel
//  2. Detect edges with Canny hysteresis thresholds
//  3. Trace every contour (all nesting levels) with collinear runs
//     compressed to their end points
//  4. Drop contours whose area is below MinArea
//  5. Approximate each survivor with epsilon = EpsilonRatio x closed arc length
//  6. Record vertices, contour area, vertex bounding box and convexity
//
// The context is checked between contours so a cancelled run stops early.
func (e *Extractor) Extract(ctx context.Context, img image.Image) ([]CandidateShape, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	gray, err := e.backend.Grayscale(img)
	if err != nil {
		return nil, fmt.Errorf("grayscale: %w", err)
	}
	blurred, err := e.backend.GaussianBlur(gray, e.opts.BlurKernel)
	if err != nil {
		return nil, fmt.Errorf("blur: %w", err)
	}
	edges, err := e.backend.Canny(blurred, e.opts.CannyLow, e.opts.CannyHigh)
	if err != nil {
		return nil, fmt.Errorf("edge detection: %w", err)
	}
	contours, err := e.backend.FindContours(edges)
	if err != nil {
		return nil, fmt.Errorf("contour extraction: %w", err)
	}

	shapes := make([]CandidateShape, 0, len(contours))
	for _, c := range contours {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		area := e.backend.ContourArea(c)
		if area < e.opts.MinArea {
			continue
		}

		epsilon := e.opts.EpsilonRatio * e.backend.ArcLength(c, true)
		approx := e.backend.ApproxPolyDP(c, epsilon, true)

		points := make([]Point, len(approx))
		for i, p := range approx {
			points[i] = Point{X: p.X, Y: p.Y}
		}

		shapes = append(shapes, CandidateShape{
			ID:          len(shapes),
			Points:      points,
			Area:        area,
			BoundingBox: BoxOf(points),
			IsConvex:    e.backend.IsContourConvex(approx),
		})
	}

	e.logger.Debug("extracted candidate shapes",
		zap.String("backend", e.backend.Name()),
		zap.Int("contours", len(contours)),
		zap.Int("candidates", len(shapes)))

	return shapes, nil
}
