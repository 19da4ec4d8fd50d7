// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package raster

import "github.com/bureau-foundation/lcdd/lib/lcd"

// BarStyle selects how Bar decorates a gauge.
type BarStyle int

const (
	// BarPlain fills the value portion only.
	BarPlain BarStyle = iota

	// BarFramed clears the gauge box, draws an outline one pixel
	// taller than the box on each side, then fills the value portion.
	BarFramed

	// BarReversed fills from the right edge and hatches the filled
	// area with background columns every second pixel. Used for
	// "free" gauges overlaid on "used" gauges.
	BarReversed
)

// Bar draws a horizontal gauge in the box (x1, y1) to (x2, y2) showing
// value out of total. Nothing is drawn when value or total is not
// positive; value is clamped to total.
func Bar(frame *lcd.Frame, x1, y1, x2, y2 int, color byte, value, total int64, style BarStyle) {
	if total <= 0 || value <= 0 {
		return
	}
	if value > total {
		value = total
	}

	length := int((int64(x2-x1)*value + total - 1) / total)

	switch style {
	case BarFramed:
		Rectangle(frame, x1, y1-1, x2+1, y2+1, true, inverse(color))
		outline(frame, x1, y1-1, x2, y2+1, color)
		Rectangle(frame, x1, y1, x1+length+1, y2, true, color)
	case BarReversed:
		Rectangle(frame, x2-length, y1, x2+1, y2, true, color)
		for x := x2 - 2; x > x2-length; x -= 2 {
			for y := y1; y <= y2; y++ {
				SetPixel(frame, x, y, inverse(color))
			}
		}
	default:
		Rectangle(frame, x1, y1, x1+length+1, y2, true, color)
	}
}

// outline draws a box border in 0-based coordinates, both edges
// inclusive.
func outline(frame *lcd.Frame, x1, y1, x2, y2 int, color byte) {
	Line(frame, x1+1, y1+1, x2+1, y1+1, color)
	Line(frame, x1+1, y2+1, x2+1, y2+1, color)
	Line(frame, x1+1, y1+1, x1+1, y2+1, color)
	Line(frame, x2+1, y1+1, x2+1, y2+1, color)
}
