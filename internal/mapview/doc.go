// Package mapview draws detected shelves and pins over a floor plan and
// routes clicks on the result.
//
// An Overlay is built once per (image, shelves, pins) triple and can be
// rendered as an SVG document for browsers, or rasterized and encoded as PNG
// or WebP. Shelves are drawn in detection order, each in the palette color at
// its position, so later shelves sit on top of earlier ones. Pins are drawn
// last.
//
// Shelves whose polygon has fewer than three vertices cannot be drawn or hit.
// They are skipped with a warning but keep their nid and palette slot.
package mapview
