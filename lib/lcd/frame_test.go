// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lcd

import (
	"bytes"
	"image/color"
	"testing"
)

func TestNewFrameIsBlank(t *testing.T) {
	frame := NewFrame()
	if len(frame.Pixels) != FrameSize {
		t.Fatalf("len(Pixels) = %d, want %d", len(frame.Pixels), FrameSize)
	}
	for i, value := range frame.Pixels {
		if value != Background {
			t.Fatalf("pixel %d = %d, want background", i, value)
		}
	}
}

func TestGeometry(t *testing.T) {
	if FrameSize != 6880 {
		t.Errorf("FrameSize = %d, want 6880", FrameSize)
	}
	if PackedSize != 860 {
		t.Errorf("PackedSize = %d, want 860", PackedSize)
	}
}

func TestPackBitLayout(t *testing.T) {
	tests := []struct {
		x, y     int
		byteAt   int
		expected byte
	}{
		{0, 0, 0, 0x80},
		{7, 0, 0, 0x01},
		{8, 0, 1, 0x80},
		{0, 1, 20, 0x80},
		{159, 42, 859, 0x01},
	}
	for _, test := range tests {
		frame := NewFrame()
		offset, ok := Offset(test.x, test.y)
		if !ok {
			t.Fatalf("Offset(%d, %d) reported off-panel", test.x, test.y)
		}
		frame.Pixels[offset] = Foreground

		packed := Pack(frame.Pixels)
		if packed[test.byteAt] != test.expected {
			t.Errorf("pixel (%d,%d): packed[%d] = %#02x, want %#02x",
				test.x, test.y, test.byteAt, packed[test.byteAt], test.expected)
		}
		for i, value := range packed {
			if i != test.byteAt && value != 0 {
				t.Errorf("pixel (%d,%d): stray bits in packed[%d] = %#02x", test.x, test.y, i, value)
			}
		}
	}
}

func TestPackTreatsAnyNonZeroAsLit(t *testing.T) {
	frame := NewFrame()
	frame.Pixels[3] = 7
	packed := Pack(frame.Pixels)
	if packed[0] != 0x10 {
		t.Fatalf("packed[0] = %#02x, want 0x10", packed[0])
	}
}

func TestUnpackRecoversPack(t *testing.T) {
	frame := NewFrame()
	for i := range frame.Pixels {
		if i%3 == 0 || i%7 == 0 {
			frame.Pixels[i] = Foreground
		}
	}
	if got := Unpack(Pack(frame.Pixels)); !bytes.Equal(got, frame.Pixels) {
		t.Fatal("Unpack(Pack(pixels)) differs from pixels")
	}
}

func TestPackIntoOverwritesStaleBits(t *testing.T) {
	dst := bytes.Repeat([]byte{0xff}, PackedSize)
	PackInto(dst, NewFrame().Pixels)
	for i, value := range dst {
		if value != 0 {
			t.Fatalf("dst[%d] = %#02x after packing a blank frame", i, value)
		}
	}
}

func TestCopyFromRejectsWrongSize(t *testing.T) {
	frame := NewFrame()
	if err := frame.CopyFrom(make([]byte, FrameSize-1)); err == nil {
		t.Fatal("CopyFrom accepted a short frame")
	}
	if err := frame.CopyFrom(bytes.Repeat([]byte{1}, FrameSize)); err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	if frame.Pixels[FrameSize-1] != 1 {
		t.Fatal("CopyFrom did not copy")
	}
}

func TestDrawImageAdapter(t *testing.T) {
	frame := NewFrame()
	frame.Set(10, 5, color.Black)
	if frame.Pixel(10, 5) != Foreground {
		t.Fatalf("Set(black) left pixel at %d", frame.Pixel(10, 5))
	}
	if frame.At(10, 5) != (color.Gray{Y: 0}) {
		t.Fatalf("At = %v, want black", frame.At(10, 5))
	}
	frame.Set(10, 5, color.White)
	if frame.Pixel(10, 5) != Background {
		t.Fatal("Set(white) did not clear the pixel")
	}

	// Off-panel writes are ignored.
	frame.Set(-1, 0, color.Black)
	frame.Set(Width, Height, color.Black)
	if frame.Pixel(-1, 0) != Background {
		t.Fatal("Pixel off-panel should read as background")
	}
}
