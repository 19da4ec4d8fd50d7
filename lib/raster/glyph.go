// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package raster

import "github.com/bureau-foundation/lcdd/lib/lcd"

// DigitGlyph draws one large clock glyph inside the box (x1, y1) to (x2,
// y2). Supported codes are '0' through '9', ':', '-', and '.'; any other code
// draws nothing. The box is inset by two pixels on the left and right
// before drawing.
//
// Each glyph is a solid block in color with background-colored
// rectangles cut out of it, giving a seven-segment look. The vertical
// split points are derived from y2/2, not from the box height, so the
// glyphs are tuned for boxes that start near the top of the panel.
func DigitGlyph(frame *lcd.Frame, x1, y1, x2, y2 int, color byte, code byte) {
	x1 += 2
	x2 -= 2

	ink := color
	paper := inverse(color)
	upper := y1 + (y2/2 - 3)
	lower := y1 + (y2/2 + 3)

	switch code {
	case '-':
		Rectangle(frame, x1, y1+(y2/2-2), x2, y1+(y2/2+2), true, ink)
	case '.':
		Rectangle(frame, x2-5, y2-5, x2, y2, true, ink)
	case '0':
		Rectangle(frame, x1, y1, x2, y2, true, ink)
		Rectangle(frame, x1+5, y1+5, x2-5, y2-6, true, paper)
	case '1':
		Rectangle(frame, x2-5, y1, x2, y2, true, ink)
		Rectangle(frame, x1, y1, x2-5, y2, true, paper)
	case '2':
		Rectangle(frame, x1, y1, x2, y2, true, ink)
		Rectangle(frame, x1, y1+5, x2-5, upper, true, paper)
		Rectangle(frame, x1+5, lower, x2, y2-6, true, paper)
	case '3':
		Rectangle(frame, x1, y1, x2, y2, true, ink)
		Rectangle(frame, x1, y1+5, x2-5, upper, true, paper)
		Rectangle(frame, x1, lower, x2-5, y2-6, true, paper)
	case '4':
		Rectangle(frame, x1, y1, x2, y2, true, ink)
		Rectangle(frame, x1, lower, x2-5, y2, true, paper)
		Rectangle(frame, x1+5, y1, x2-5, upper, true, paper)
	case '5':
		Rectangle(frame, x1, y1, x2, y2, true, ink)
		Rectangle(frame, x1+5, y1+5, x2, upper, true, paper)
		Rectangle(frame, x1, lower, x2-5, y2-6, true, paper)
	case '6':
		Rectangle(frame, x1, y1, x2, y2, true, ink)
		Rectangle(frame, x1+5, y1+5, x2, upper, true, paper)
		Rectangle(frame, x1+5, lower, x2-5, y2-6, true, paper)
	case '7':
		Rectangle(frame, x1, y1, x2, y2, true, ink)
		Rectangle(frame, x1, y1+5, x2-5, y2, true, paper)
	case '8':
		Rectangle(frame, x1, y1, x2, y2, true, ink)
		Rectangle(frame, x1+5, y1+5, x2-5, upper, true, paper)
		Rectangle(frame, x1+5, lower, x2-5, y2-6, true, paper)
	case '9':
		Rectangle(frame, x1, y1, x2, y2, true, ink)
		Rectangle(frame, x1+5, y1+5, x2-5, upper, true, paper)
		Rectangle(frame, x1, lower, x2-5, y2, true, paper)
	case ':':
		Rectangle(frame, x2-5, y1+5, x2, y1+10, true, ink)
		Rectangle(frame, x2-5, y2-10, x2, y2-5, true, ink)
	}
}
