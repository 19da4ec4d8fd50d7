// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package raster

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/bureau-foundation/lcdd/lib/lcd"
)

// TextHeight is the line height of the face used by Text. Three lines
// fit on the panel.
const TextHeight = 13

var textFace font.Face = basicfont.Face7x13

// Text draws s with its top-left corner at (x, y) using a 7x13 bitmap
// face. Glyphs falling off the panel are clipped.
func Text(frame *lcd.Frame, x, y int, s string, color byte) {
	source := image.Black
	if color == lcd.Background {
		source = image.White
	}
	drawer := font.Drawer{
		Dst:  frame,
		Src:  source,
		Face: textFace,
		Dot:  fixed.P(x, y+textFace.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(s)
}

// TextWidth returns the width in pixels of s as drawn by Text.
func TextWidth(s string) int {
	return font.MeasureString(textFace, s).Ceil()
}

// CenteredText draws s horizontally centred on the panel with its top
// at y.
func CenteredText(frame *lcd.Frame, y int, s string, color byte) {
	Text(frame, (lcd.Width-TextWidth(s))/2, y, s, color)
}
