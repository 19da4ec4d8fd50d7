// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package lcdserver accepts frame clients and runs one handler per
// connection.
//
// The acceptor polls its listener with a deadline so that it notices
// context cancellation within one poll interval. Each accepted
// connection gets a display-list node, has the connection bound to
// it, and is handed to a handler goroutine that walks the session
// through greeting, buffer selection, and frame streaming (see package
// protocol). When the client leaves, for any reason, the handler
// closes the connection and removes the node.
//
// On shutdown the server destroys the display list, which closes the
// connections of every client still attached, and then waits for all
// handlers to return.
package lcdserver
