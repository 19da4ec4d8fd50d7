// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package lcd defines the display geometry and the in-memory frame
// format shared by the daemon, the rasterizer, and clients.
//
// A [Frame] stores one byte per pixel in row-major order with the
// origin at the top-left corner. Zero is background; any non-zero
// value lights the pixel. The panel itself consumes a bit-packed
// buffer: [Pack] converts a frame's pixels into that layout (pixel
// offset y*Width+x, MSB first within each byte) and [Unpack] reverses
// it.
//
// Frame also implements [image/draw.Image] so that generic drawing
// code (font rendering in particular) can target it directly. Dark
// colors map to the foreground, light colors to the background.
package lcd
