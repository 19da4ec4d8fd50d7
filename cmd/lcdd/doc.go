// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Lcdd is the LCD multiplexing daemon. Frame clients connect over
// TCP, receive the greeting, select the pixel buffer with 'G', and
// then stream 6880-byte frames. Each client owns one screen; the
// daemon shows one screen at a time, and a clock screen is always
// present.
//
// Components:
//
//	acceptor (lib/lcdserver) → display list (lib/displaylist) → output driver (lib/output)
//	control socket (lib/control) → display list navigation
//
// Configuration comes from --config, LCDD_CONFIG, or the built-in
// defaults (see lib/config). --listen and --log-level override the
// corresponding file values.
//
// The default output backend is discard. The terminal backend draws
// on stdout; run it with log.format json or stderr redirected so that
// log lines do not tear the rendered panel.
//
// Shutdown on SIGINT or SIGTERM: the acceptor stops, remaining
// clients are disconnected, and the output driver and control socket
// exit.
package main
