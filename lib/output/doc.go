// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package output pushes the selected frame to the panel.
//
// A Driver ticks on an injected clock. On each tick it renders the
// clock into the sentinel when the sentinel is on screen, copies the
// current frame out of the display list, packs it into the panel's
// bit layout, and hands it to a Backend. Frames whose packed bytes
// hash to the same BLAKE3 digest as the last write are skipped, so an
// idle display costs one hash per tick.
//
// Backends are the hardware boundary: DiscardBackend drops frames,
// FileBackend writes each packed frame to a file or device node, and
// TerminalBackend draws a preview with half-block characters.
package output
