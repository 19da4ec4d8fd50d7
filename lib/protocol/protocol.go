// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package protocol defines the frame-client wire protocol and a small
// client for it.
//
// A session is three steps over one TCP connection:
//
//  1. The daemon sends the greeting string (Greeting by default).
//  2. The client sends a 4-byte selector whose first byte picks the
//     buffer type. Only BufferPixel ('G') is supported; Selector is
//     the canonical value.
//  3. The client sends frames of exactly lcd.FrameSize bytes, one byte
//     per pixel, row-major from the top-left corner, until it closes
//     the connection.
//
// The daemon never replies after the greeting.
package protocol

const (
	// Greeting is the string the daemon sends on every new
	// connection.
	Greeting = "G15 daemon HELLO"

	// BufferPixel is the selector byte for one-byte-per-pixel frames.
	BufferPixel byte = 'G'

	// Selector is the canonical 4-byte selector for pixel frames.
	Selector = "GBUF"

	// SelectorSize is the length of the selector message.
	SelectorSize = 4

	// DefaultAddress is where the daemon listens unless configured
	// otherwise.
	DefaultAddress = "127.0.0.1:15550"
)
