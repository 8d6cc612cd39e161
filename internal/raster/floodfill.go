package raster

import (
	"image"
	"image/color"
)

// FloodFill recolors the 4-connected region of pixels whose RGBA tuple
// equals the seed pixel's, starting at (x, y). It returns false without
// touching img when the seed is outside the buffer or already has the fill
// color.
//
// The fill walks vertical spans: each popped seed is moved up to the top of
// its run, then the run is painted downwards, pushing a left and right
// neighbor once per contiguous stretch of matching pixels beside it. Work
// happens on a copy of the pixel buffer which is written back to img in a
// single step at the end.
func FloodFill(img *image.RGBA, x, y int, fill color.RGBA) bool {
	b := img.Rect
	if !image.Pt(x, y).In(b) {
		return false
	}

	pix := make([]uint8, len(img.Pix))
	copy(pix, img.Pix)

	offset := func(x, y int) int {
		return (y-b.Min.Y)*img.Stride + (x-b.Min.X)*4
	}
	at := func(x, y int) color.RGBA {
		i := offset(x, y)
		return color.RGBA{R: pix[i], G: pix[i+1], B: pix[i+2], A: pix[i+3]}
	}

	start := at(x, y)
	if start == fill {
		return false
	}

	matches := func(x, y int) bool {
		return at(x, y) == start
	}
	set := func(x, y int) {
		i := offset(x, y)
		pix[i], pix[i+1], pix[i+2], pix[i+3] = fill.R, fill.G, fill.B, fill.A
	}

	stack := []image.Point{{X: x, Y: y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		px, py := p.X, p.Y
		if !matches(px, py) {
			continue
		}
		for py > b.Min.Y && matches(px, py-1) {
			py--
		}

		spanLeft, spanRight := false, false
		for py < b.Max.Y && matches(px, py) {
			set(px, py)

			if px > b.Min.X {
				if matches(px-1, py) {
					if !spanLeft {
						stack = append(stack, image.Point{X: px - 1, Y: py})
						spanLeft = true
					}
				} else {
					spanLeft = false
				}
			}
			if px < b.Max.X-1 {
				if matches(px+1, py) {
					if !spanRight {
						stack = append(stack, image.Point{X: px + 1, Y: py})
						spanRight = true
					}
				} else {
					spanRight = false
				}
			}
			py++
		}
	}

	copy(img.Pix, pix)
	return true
}
