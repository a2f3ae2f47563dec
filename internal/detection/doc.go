// Package detection turns a floor-plan raster into labeled shelf regions.
//
// Detection runs as a fixed sequence of stages over the primitives of a
// vision.Backend:
//
//  1. Extraction: grayscale, Gaussian blur, Canny edges, contour tracing,
//     small-area rejection and Douglas-Peucker polygon approximation
//  2. Deduplication: greedy suppression of boxes that overlap an earlier
//     kept box with IoU above the threshold
//  3. Containment filtering: removal of shapes whose box encloses another
//     shape's box, which drops room outlines and map frames
//  4. Labeling: positional identifiers n1..nK and names from a shelf registry
//
// An optional fifth stage attaches an OCR text hint to each shelf.
//
// # Coordinate System
//
// All coordinates are source-image pixels:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Box width and height are max minus min over the polygon vertices, so a
//     box spans [X, X+Width] x [Y, Y+Height] inclusive
//
// # Determinism
//
// Every stage is order-preserving and the deduplicator is order-dependent:
// when two shapes overlap, the one extracted first wins. For a fixed image and
// backend the output is identical from run to run.
package detection
