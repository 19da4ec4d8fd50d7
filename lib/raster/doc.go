// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package raster draws into [lcd.Frame] values.
//
// Every function is pure with respect to package state: it touches
// only the frame it is given and takes no locks. Callers that share a
// frame between goroutines (the display list's clock screen, for
// example) must already hold whatever lock guards it.
//
// Coordinate conventions differ between primitives and are part of
// the contract that existing clients rely on:
//
//   - [SetPixel], [Clear], filled [Rectangle], [Text], and [Bar] use
//     0-based pixel coordinates.
//   - [Line] and therefore outline [Rectangle] take 1-based
//     coordinates and subtract one before plotting.
//   - Filled rectangles cover rows y1 through y2 inclusive but only
//     x2-x1 columns starting at x1, so the right edge is exclusive.
//
// [DigitGlyph] and [RenderClock] implement the large seven-segment
// style clock face shown when no client is selected.
package raster
