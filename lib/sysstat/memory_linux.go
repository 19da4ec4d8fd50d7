// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sysstat

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// Memory is the sysinfo(2) view of RAM and swap, in bytes.
type Memory struct {
	Total     uint64
	Free      uint64
	Shared    uint64
	Buffers   uint64
	SwapTotal uint64
	SwapFree  uint64

	Uptime    time.Duration
	Processes int
}

// Used is RAM neither free nor holding buffers.
func (m Memory) Used() uint64 {
	return delta(m.Free+m.Buffers, m.Total)
}

// SwapUsed is swap in use.
func (m Memory) SwapUsed() uint64 {
	return delta(m.SwapFree, m.SwapTotal)
}

// ReadMemory calls sysinfo(2).
func ReadMemory() (Memory, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return Memory{}, fmt.Errorf("sysinfo: %w", err)
	}
	return memoryFromSysinfo(&info), nil
}

// memoryFromSysinfo scales the kernel's unit-sized counters to bytes.
func memoryFromSysinfo(info *unix.Sysinfo_t) Memory {
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	return Memory{
		Total:     uint64(info.Totalram) * unit,
		Free:      uint64(info.Freeram) * unit,
		Shared:    uint64(info.Sharedram) * unit,
		Buffers:   uint64(info.Bufferram) * unit,
		SwapTotal: uint64(info.Totalswap) * unit,
		SwapFree:  uint64(info.Freeswap) * unit,
		Uptime:    time.Duration(info.Uptime) * time.Second,
		Processes: int(info.Procs),
	}
}
