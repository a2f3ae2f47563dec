//go:build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// GoCVBackend implements Backend on OpenCV. Every Mat and point vector it
// allocates is closed before the method returns.
type GoCVBackend struct{}

// NewGoCVBackend returns the OpenCV backend.
func NewGoCVBackend() *GoCVBackend {
	return &GoCVBackend{}
}

// DefaultLoader returns a loader that checks the OpenCV library is usable
// before handing out the gocv backend.
func DefaultLoader() Loader {
	return func(ctx context.Context) (Backend, error) {
		if gocv.Version() == "" {
			return nil, errors.New("opencv library not available")
		}
		probe := gocv.NewMatWithSize(1, 1, gocv.MatTypeCV8U)
		defer probe.Close()
		if probe.Empty() {
			return nil, errors.New("opencv failed to allocate a matrix")
		}
		return NewGoCVBackend(), nil
	}
}

func (GoCVBackend) Name() string { return "gocv " + gocv.Version() }

func (GoCVBackend) Grayscale(img image.Image) (*image.Gray, error) {
	if img == nil {
		return nil, errors.New("grayscale: nil image")
	}
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("grayscale: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	return matToGray(gray)
}

func (GoCVBackend) GaussianBlur(g *image.Gray, kernel int) (*image.Gray, error) {
	if kernel <= 0 || kernel%2 == 0 {
		return nil, fmt.Errorf("gaussian blur: kernel size must be odd and positive, got %d", kernel)
	}
	src, err := gocv.ImageGrayToMatGray(asGray(g))
	if err != nil {
		return nil, fmt.Errorf("gaussian blur: %w", err)
	}
	defer src.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(src, &blurred, image.Pt(kernel, kernel), 0, 0, gocv.BorderDefault)

	return matToGray(blurred)
}

func (GoCVBackend) Canny(g *image.Gray, low, high float64) (*image.Gray, error) {
	if low > high {
		return nil, fmt.Errorf("canny: low threshold %v exceeds high threshold %v", low, high)
	}
	src, err := gocv.ImageGrayToMatGray(asGray(g))
	if err != nil {
		return nil, fmt.Errorf("canny: %w", err)
	}
	defer src.Close()

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(src, &edges, float32(low), float32(high))

	return matToGray(edges)
}

func (GoCVBackend) FindContours(edges *image.Gray) ([]Contour, error) {
	src, err := gocv.ImageGrayToMatGray(asGray(edges))
	if err != nil {
		return nil, fmt.Errorf("find contours: %w", err)
	}
	defer src.Close()

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()

	found := gocv.FindContoursWithParams(src, &hierarchy, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer found.Close()

	raw := found.ToPoints()
	contours := make([]Contour, len(raw))
	for i, pts := range raw {
		contours[i] = Contour(pts)
	}
	return contours, nil
}

func (GoCVBackend) ContourArea(c Contour) float64 {
	if len(c) < 3 {
		return 0
	}
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()
	return gocv.ContourArea(pv)
}

func (GoCVBackend) ArcLength(c Contour, closed bool) float64 {
	if len(c) < 2 {
		return 0
	}
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()
	return gocv.ArcLength(pv, closed)
}

func (GoCVBackend) ApproxPolyDP(c Contour, epsilon float64, closed bool) Contour {
	if len(c) == 0 {
		return nil
	}
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()

	approx := gocv.ApproxPolyDP(pv, epsilon, closed)
	defer approx.Close()

	return Contour(approx.ToPoints())
}

// IsContourConvex uses the shared turn test; gocv does not bind
// cv::isContourConvex.
func (GoCVBackend) IsContourConvex(c Contour) bool {
	return isConvexPolygon(c)
}

func matToGray(m gocv.Mat) (*image.Gray, error) {
	if m.Empty() {
		return nil, errors.New("opencv produced an empty matrix")
	}
	img, err := m.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert matrix: %w", err)
	}
	return asGray(img), nil
}
