// Package vision supplies the computer-vision primitives used by shelf
// detection: grayscale conversion, Gaussian blur, Canny edge detection,
// contour extraction, contour area and arc length, Douglas-Peucker polygon
// approximation, and a convexity test.
//
// # Backends
//
// Two implementations of Backend exist:
//
//   - OpenCV through gocv.io/x/gocv, compiled in with the "gocv" build tag.
//   - A pure-Go backend (default build) using github.com/anthonynsimon/bild
//     for grayscale and separable Gaussian convolution, a Canny
//     implementation in this package, Suzuki-Abe border following for
//     contours, and github.com/paulmach/orb for polygon measurement and
//     simplification.
//
// Only Go-owned values (image.Gray, []image.Point) cross the Backend boundary.
// The gocv backend acquires and releases its native matrices inside each call,
// so callers never hold native memory and early returns cannot leak it.
//
// # Readiness
//
// Backends are obtained through a Runtime, which runs a Loader once and lets
// callers await the result with a deadline. Readiness latches: once a backend
// has loaded it stays available for the life of the process.
//
// # Coordinate System
//
// All coordinates are pixel coordinates with (0, 0) at the top-left corner,
// X increasing rightward and Y increasing downward.
package vision
