// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/lcdd/lib/lcd"
)

// Panel colors for the preview: dark pixels on a green backlight.
var (
	pixelColor     = lipgloss.Color("#0f380f")
	backlightColor = lipgloss.Color("#8bac0f")
)

// Half-block glyphs indexed by top | bottom<<1.
var halfBlocks = [4]string{" ", "▀", "▄", "█"}

// TerminalBackend draws frames on a terminal. Each character cell
// shows two panel rows, so the preview is 160 columns by 22 lines
// inside a rounded border. The cursor is homed before every frame so
// the preview redraws in place.
type TerminalBackend struct {
	output  *termenv.Output
	border  lipgloss.Style
	cells   [4]string
	cleared bool
	body    strings.Builder
}

// NewTerminalBackend draws to w. With termenv.Ascii the preview is
// monochrome, drawn with the half-block glyphs alone.
func NewTerminalBackend(w io.Writer, profile termenv.Profile) *TerminalBackend {
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)

	cell := renderer.NewStyle().Foreground(pixelColor).Background(backlightColor)
	backend := &TerminalBackend{
		output: termenv.NewOutput(w, termenv.WithProfile(profile)),
		border: renderer.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(backlightColor),
	}
	for i, glyph := range halfBlocks {
		backend.cells[i] = cell.Render(glyph)
	}
	return backend
}

// WritePixmap implements Backend.
func (b *TerminalBackend) WritePixmap(packed []byte) error {
	if len(packed) != lcd.PackedSize {
		return fmt.Errorf("output: pixmap is %d bytes, want %d", len(packed), lcd.PackedSize)
	}

	b.body.Reset()
	for y := 0; y < lcd.Height; y += 2 {
		if y > 0 {
			b.body.WriteByte('\n')
		}
		for x := 0; x < lcd.Width; x++ {
			index := packedBit(packed, x, y) | packedBit(packed, x, y+1)<<1
			b.body.WriteString(b.cells[index])
		}
	}

	if !b.cleared {
		b.output.ClearScreen()
		b.cleared = true
	}
	b.output.MoveCursor(1, 1)
	if _, err := io.WriteString(b.output, b.border.Render(b.body.String())+"\n"); err != nil {
		return fmt.Errorf("drawing preview: %w", err)
	}
	return nil
}

// packedBit returns 1 when (x, y) is lit in a packed frame. Rows past
// the bottom edge read as unlit.
func packedBit(packed []byte, x, y int) int {
	offset, ok := lcd.Offset(x, y)
	if !ok {
		return 0
	}
	return int(packed[offset/8]>>(7-offset%8)) & 1
}

// Close implements Backend. The terminal is left as drawn.
func (b *TerminalBackend) Close() error { return nil }
