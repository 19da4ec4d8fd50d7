// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package raster

import (
	"time"

	"github.com/bureau-foundation/lcdd/lib/lcd"
)

const (
	// ClockRedrawInterval is how long a rendered clock face stays
	// valid. RenderClock does nothing until more than this much time
	// has passed since the frame's UpdatedAt.
	ClockRedrawInterval = 60 * time.Second

	// glyphWidth is the horizontal pitch of one clock glyph.
	glyphWidth = 20

	// narrowAdjust widens the layout when the hour starts with '1'.
	narrowAdjust = 15
)

// RenderClock draws the current time as HH:MM (24-hour) centred on
// the panel, then sets frame.UpdatedAt to now. When the frame was
// drawn less than ClockRedrawInterval ago the call is a no-op.
// Reports whether the frame was redrawn.
func RenderClock(frame *lcd.Frame, now time.Time) bool {
	if !frame.UpdatedAt.Before(now.Add(-ClockRedrawInterval)) {
		return false
	}

	Clear(frame, lcd.Background)

	text := now.Format("15:04")
	totalWidth := len(text) * glyphWidth
	if text[0] == '1' {
		totalWidth += narrowAdjust
	}

	left := lcd.Width/2 - totalWidth/2
	for column := 0; column < len(text); column++ {
		DigitGlyph(frame,
			left+column*glyphWidth, 1,
			left+(column+1)*glyphWidth, lcd.Height,
			lcd.Foreground, text[column])
	}

	frame.UpdatedAt = now
	return true
}
