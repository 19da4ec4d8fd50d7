// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package raster

import "github.com/bureau-foundation/lcdd/lib/lcd"

// SetPixel writes color at (x, y). Coordinates off the panel are
// ignored.
func SetPixel(frame *lcd.Frame, x, y int, color byte) {
	offset, ok := lcd.Offset(x, y)
	if !ok {
		return
	}
	frame.Pixels[offset] = color
}

// Clear fills the whole frame with color.
func Clear(frame *lcd.Frame, color byte) {
	for i := range frame.Pixels {
		frame.Pixels[i] = color
	}
}

// Line draws from (x1, y1) to (x2, y2) with the integer Bresenham
// algorithm. Coordinates are 1-based: each is decremented before
// plotting. The start pixel is always drawn, so equal endpoints plot
// exactly one pixel.
func Line(frame *lcd.Frame, x1, y1, x2, y2 int, color byte) {
	x1--
	y1--
	x2--
	y2--

	dx := x2 - x1
	ax := abs(dx) << 1
	sx := 1
	if dx < 0 {
		sx = -1
	}

	dy := y2 - y1
	ay := abs(dy) << 1
	sy := 1
	if dy < 0 {
		sy = -1
	}

	SetPixel(frame, x1, y1, color)

	if ax > ay {
		d := ay - (ax >> 1)
		for x1 != x2 {
			if d >= 0 {
				y1 += sy
				d -= ax
			}
			x1 += sx
			d += ay
			SetPixel(frame, x1, y1, color)
		}
		return
	}

	d := ax - (ay >> 1)
	for y1 != y2 {
		if d >= 0 {
			x1 += sx
			d -= ay
		}
		y1 += sy
		d += ax
		SetPixel(frame, x1, y1, color)
	}
}

// Rectangle draws the box spanned by (x1, y1) and (x2, y2). Nothing
// is drawn when the box has zero width or height.
//
// Outline mode draws the four edges with Line (1-based coordinates).
// Filled mode paints rows y1..y2 inclusive, each with a run of x2-x1
// pixels starting at column x1 (0-based, right edge exclusive). Runs
// are clipped to the panel rather than wrapping onto the next row.
func Rectangle(frame *lcd.Frame, x1, y1, x2, y2 int, filled bool, color byte) {
	if x1 == x2 || y1 == y2 {
		return
	}

	if !filled {
		Line(frame, x1, y1, x2, y1, color)
		Line(frame, x1, y1, x1, y2, color)
		Line(frame, x1, y2, x2, y2, color)
		Line(frame, x2, y1, x2, y2, color)
		return
	}

	start := max(x1, 0)
	end := min(x2, lcd.Width)
	if start >= end {
		return
	}
	for y := max(y1, 0); y <= y2 && y < lcd.Height; y++ {
		row := frame.Pixels[y*lcd.Width : (y+1)*lcd.Width]
		for x := start; x < end; x++ {
			row[x] = color
		}
	}
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}

// inverse returns the color used for cut-outs when drawing with color.
func inverse(color byte) byte {
	if color == lcd.Background {
		return lcd.Foreground
	}
	return lcd.Background
}
