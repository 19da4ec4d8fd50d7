// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lcd

import (
	"fmt"
	"image"
	"image/color"
	"time"
)

const (
	// Width is the panel width in pixels.
	Width = 160

	// Height is the panel height in pixels.
	Height = 43

	// FrameSize is the number of bytes in one client frame: one byte
	// per pixel.
	FrameSize = Width * Height

	// PackedSize is the number of bytes in the bit-packed panel
	// buffer produced by Pack.
	PackedSize = (FrameSize + 7) / 8
)

// Pixel values. Anything other than Background is drawn lit.
const (
	Background byte = 0
	Foreground byte = 1
)

// Frame is one display surface. The zero value is not usable; create
// frames with NewFrame.
type Frame struct {
	// Pixels holds FrameSize bytes, row-major, one byte per pixel.
	Pixels []byte

	// Serial is a marker that advances every time a client writes a
	// complete frame. Readers compare serials to detect new content.
	Serial uint64

	// UpdatedAt is the time of the last write or render. The clock
	// screen uses it to throttle redraws.
	UpdatedAt time.Time
}

// NewFrame returns a frame with every pixel set to Background.
func NewFrame() *Frame {
	return &Frame{Pixels: make([]byte, FrameSize)}
}

// Offset returns the index of (x, y) in Pixels and whether the
// coordinate lies on the panel.
func Offset(x, y int) (int, bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return 0, false
	}
	return y*Width + x, true
}

// Pixel returns the raw value at (x, y), or Background when the
// coordinate is off the panel.
func (f *Frame) Pixel(x, y int) byte {
	offset, ok := Offset(x, y)
	if !ok {
		return Background
	}
	return f.Pixels[offset]
}

// CopyFrom replaces the frame's pixels with src. The length must be
// exactly FrameSize.
func (f *Frame) CopyFrom(src []byte) error {
	if len(src) != FrameSize {
		return fmt.Errorf("lcd: frame is %d bytes, want %d", len(src), FrameSize)
	}
	copy(f.Pixels, src)
	return nil
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model { return color.GrayModel }

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, Width, Height) }

// At implements image.Image. Lit pixels are black, unlit pixels white,
// matching the appearance of the monochrome panel.
func (f *Frame) At(x, y int) color.Color {
	if f.Pixel(x, y) != Background {
		return color.Gray{Y: 0}
	}
	return color.Gray{Y: 0xff}
}

// Set implements draw.Image. Colors darker than mid-gray light the
// pixel; everything else clears it.
func (f *Frame) Set(x, y int, c color.Color) {
	offset, ok := Offset(x, y)
	if !ok {
		return
	}
	gray := color.GrayModel.Convert(c).(color.Gray)
	if gray.Y < 0x80 {
		f.Pixels[offset] = Foreground
	} else {
		f.Pixels[offset] = Background
	}
}

// Pack converts one-byte-per-pixel data into the panel's bit-packed
// layout. Pixel (x, y) lands in byte (y*Width+x)/8 at bit
// 7-(y*Width+x)%8. pixels must hold FrameSize bytes.
func Pack(pixels []byte) []byte {
	packed := make([]byte, PackedSize)
	PackInto(packed, pixels)
	return packed
}

// PackInto is Pack writing into a caller-owned buffer of at least
// PackedSize bytes. Every destination bit is overwritten.
func PackInto(dst, pixels []byte) {
	clear(dst[:PackedSize])
	for offset := 0; offset < FrameSize; offset++ {
		if pixels[offset] != Background {
			dst[offset/8] |= 1 << (7 - offset%8)
		}
	}
}

// Unpack expands a bit-packed panel buffer back into one byte per
// pixel, using Foreground for set bits.
func Unpack(packed []byte) []byte {
	pixels := make([]byte, FrameSize)
	for offset := 0; offset < FrameSize; offset++ {
		if packed[offset/8]&(1<<(7-offset%8)) != 0 {
			pixels[offset] = Foreground
		}
	}
	return pixels
}
