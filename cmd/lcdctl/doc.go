// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Lcdctl drives a running lcdd through its control socket. It stands
// in for the keyboard's screen-switch keys:
//
//	lcdctl next [--count N]       show the next client screen
//	lcdctl previous [--count N]   show the previous screen
//	lcdctl mode                   show the clock screen
//	lcdctl submode                show the newest client screen
//	lcdctl status                 print the daemon's state
//
// --raw prints the response in CBOR diagnostic notation instead of
// the human-readable summary.
package main
