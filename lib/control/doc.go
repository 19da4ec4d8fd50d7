// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package control serves the daemon's control socket and provides the
// client used by lcdctl.
//
// The socket speaks one CBOR request and one CBOR response per
// connection. A request is a map with an "action" field; the response
// is a [Response] envelope. The display actions stand in for the
// panel's keys:
//
//	next      show the following screen in list order
//	previous  show the preceding screen
//	mode      show the clock
//	submode   show the most recently connected client
//	status    report clients, position, uptime, and frame count
//
// next and previous accept an optional "count" field to move several
// screens at once.
package control
