package vision

import "image"

// 8-neighbourhood in clockwise screen order starting east: E, SE, S, SW, W, NW, N, NE.
var (
	ndx = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	ndy = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

func dirIndex(dx, dy int) int {
	for i := range ndx {
		if ndx[i] == dx && ndy[i] == dy {
			return i
		}
	}
	return 0
}

// traceBorders extracts every border of the non-zero regions in edges using
// Suzuki-Abe border following. Both outer borders and hole borders are
// returned, in the raster order of their starting pixels, each as the full
// pixel chain.
func traceBorders(edges *image.Gray) []Contour {
	b := edges.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	// Padded label grid: a one-pixel zero frame removes bounds checks.
	pw := w + 2
	f := make([]int32, pw*(h+2))
	for y := 0; y < h; y++ {
		row := edges.Pix[(y+b.Min.Y-edges.Rect.Min.Y)*edges.Stride+(b.Min.X-edges.Rect.Min.X):]
		for x := 0; x < w; x++ {
			if row[x] != 0 {
				f[(y+1)*pw+x+1] = 1
			}
		}
	}
	at := func(x, y int) int { return y*pw + x }

	var contours []Contour
	nbd := int32(1)

	for y := 1; y <= h; y++ {
		for x := 1; x <= w; x++ {
			v := f[at(x, y)]
			if v == 0 {
				continue
			}

			var x2, y2 int
			switch {
			case v == 1 && f[at(x-1, y)] == 0:
				x2, y2 = x-1, y
			case v >= 1 && f[at(x+1, y)] == 0:
				x2, y2 = x+1, y
			default:
				continue
			}
			nbd++

			chain := follow(f, pw, x, y, x2, y2, nbd)
			c := make(Contour, len(chain))
			for i, p := range chain {
				c[i] = image.Pt(p.X-1+b.Min.X, p.Y-1+b.Min.Y)
			}
			contours = append(contours, c)
		}
	}
	return contours
}

// follow traces one border starting at (x, y), whose zero neighbour (x2, y2)
// identifies the side being followed, labelling visited pixels with nbd.
func follow(f []int32, pw, x, y, x2, y2 int, nbd int32) []image.Point {
	at := func(x, y int) int { return y*pw + x }

	// Find the first non-zero neighbour clockwise from (x2, y2).
	d0 := dirIndex(x2-x, y2-y)
	found := -1
	for k := 0; k < 8; k++ {
		d := (d0 + k) % 8
		if f[at(x+ndx[d], y+ndy[d])] != 0 {
			found = d
			break
		}
	}
	if found < 0 {
		// Isolated pixel.
		f[at(x, y)] = -nbd
		return []image.Point{{X: x, Y: y}}
	}

	x1, y1 := x+ndx[found], y+ndy[found]
	x2, y2 = x1, y1
	x3, y3 := x, y
	chain := []image.Point{{X: x, Y: y}}

	for {
		// Counter-clockwise search around (x3, y3), starting just past (x2, y2).
		d := dirIndex(x2-x3, y2-y3)
		eastZero := false
		var x4, y4 int
		for k := 1; k <= 8; k++ {
			dd := ((d-k)%8 + 8) % 8
			nx, ny := x3+ndx[dd], y3+ndy[dd]
			if f[at(nx, ny)] != 0 {
				x4, y4 = nx, ny
				break
			}
			if dd == 0 {
				eastZero = true
			}
		}

		if eastZero {
			f[at(x3, y3)] = -nbd
		} else if f[at(x3, y3)] == 1 {
			f[at(x3, y3)] = nbd
		}

		if x4 == x && y4 == y && x3 == x1 && y3 == y1 {
			return chain
		}
		chain = append(chain, image.Point{X: x4, Y: y4})
		x2, y2 = x3, y3
		x3, y3 = x4, y4
	}
}
