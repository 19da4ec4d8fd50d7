// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Lcdd-stats is a frame client for lcdd that shows host statistics:
// CPU, memory, swap, network and load screens, each with two gauges
// and an information line along the bottom.
//
// It samples once per --interval (default 1s) and sends a frame each
// time. With --cycle it rotates through the screens; otherwise it
// stays on --screen. The network screen appears only when
// --interface names an interface present in /proc/net/dev.
//
//	lcdd-stats --interface eth0 --cycle 10s
package main
