// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sysstat samples host statistics for the stats client: CPU
// time from /proc/stat, load from /proc/loadavg, interface counters
// from /proc/net/dev, and memory, swap and uptime from sysinfo(2).
//
// Counters are cumulative. Callers keep the previous reading and
// compute rates from the delta; [CPUUsage] and [NetHistory] do this for
// the common cases.
package sysstat
