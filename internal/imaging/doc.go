// Package imaging decodes floor-plan uploads and crops regions out of them.
//
// Uploads are identified by content, not by file name. Raster formats (PNG,
// JPEG, GIF, BMP, TIFF, WebP) are decoded with EXIF orientation applied; PDF
// documents are rasterized from their first page at a configurable DPI.
//
// # Coordinate System
//
// Decoded images are never rescaled. Shelf polygons and pins are expressed in
// the pixel space of the decoded image, so an image that exceeds the size
// limits is rejected rather than shrunk.
//
// For regions, (x1,y1) is inclusive (top-left) and (x2,y2) is exclusive
// (bottom-right), matching image.Rectangle.
package imaging
