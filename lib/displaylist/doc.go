// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package displaylist holds the ordered set of frame buffers the
// daemon arbitrates between: one per connected client plus a
// permanent sentinel that carries the clock screen.
//
// Nodes live in an arena owned by the List and are linked by index.
// Callers refer to them through a Handle, which pairs the arena index
// with a generation counter; once a node is removed every Handle to it
// is stale and operations on it return ErrStaleHandle rather than
// touching a recycled slot.
//
// A single mutex orders every structural change, every frame write,
// and every read of frame content. The output driver and the client
// handlers therefore never observe a half-written frame or a node in
// the middle of being unlinked.
//
// The list has three cursors. The sentinel (tail) is node 0 and never
// moves. head is the most recently added live node, or the sentinel
// when no clients remain. current is the node being shown; it is
// always live and is moved by Add, Remove, and the navigation methods.
package displaylist
