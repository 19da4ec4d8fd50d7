// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sysstat

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrMalformed is returned when a /proc file does not have the
// expected shape.
var ErrMalformed = errors.New("sysstat: malformed input")

// CPUTimes holds cumulative jiffies for one "cpu" line of /proc/stat:
//
//	cpu  user nice system idle iowait irq softirq steal [guest guest_nice]
//
// guest and guest_nice are already counted in user and nice.
type CPUTimes struct {
	User    uint64
	Nice    uint64
	System  uint64
	Idle    uint64
	IOWait  uint64
	IRQ     uint64
	SoftIRQ uint64
	Steal   uint64
}

// Busy is user + nice + system + irq + softirq + steal.
func (t CPUTimes) Busy() uint64 {
	return t.User + t.Nice + t.System + t.IRQ + t.SoftIRQ + t.Steal
}

// Waiting is idle plus iowait.
func (t CPUTimes) Waiting() uint64 {
	return t.Idle + t.IOWait
}

// Total is Busy plus Waiting.
func (t CPUTimes) Total() uint64 {
	return t.Busy() + t.Waiting()
}

// CPUStat is one /proc/stat reading: the aggregate line and one entry
// per core in kernel order.
type CPUStat struct {
	All   CPUTimes
	Cores []CPUTimes
}

// ReadCPU reads /proc/stat.
func ReadCPU() (CPUStat, error) {
	return readCPUFrom("/proc/stat")
}

func readCPUFrom(path string) (CPUStat, error) {
	file, err := os.Open(path)
	if err != nil {
		return CPUStat{}, err
	}
	defer file.Close()

	var stat CPUStat
	sawAggregate := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || !strings.HasPrefix(fields[0], "cpu") {
			continue
		}
		times, err := parseCPUFields(fields)
		if err != nil {
			return CPUStat{}, fmt.Errorf("%s: %w", path, err)
		}
		if fields[0] == "cpu" {
			stat.All = times
			sawAggregate = true
		} else {
			stat.Cores = append(stat.Cores, times)
		}
	}
	if err := scanner.Err(); err != nil {
		return CPUStat{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if !sawAggregate {
		return CPUStat{}, fmt.Errorf("%s: no aggregate cpu line: %w", path, ErrMalformed)
	}
	return stat, nil
}

func parseCPUFields(fields []string) (CPUTimes, error) {
	// Label plus at least user..steal.
	if len(fields) < 9 {
		return CPUTimes{}, fmt.Errorf("%s has %d fields: %w", fields[0], len(fields)-1, ErrMalformed)
	}
	var values [8]uint64
	for i := range values {
		parsed, err := strconv.ParseUint(fields[i+1], 10, 64)
		if err != nil {
			return CPUTimes{}, fmt.Errorf("%s field %d: %w", fields[0], i, ErrMalformed)
		}
		values[i] = parsed
	}
	return CPUTimes{
		User:    values[0],
		Nice:    values[1],
		System:  values[2],
		Idle:    values[3],
		IOWait:  values[4],
		IRQ:     values[5],
		SoftIRQ: values[6],
		Steal:   values[7],
	}, nil
}

// Usage is CPU utilization between two readings, each field a
// percentage of the elapsed jiffies.
type Usage struct {
	User   float64
	Nice   float64
	System float64
	Idle   float64
	Busy   float64
}

// CPUUsage computes utilization from two sequential readings of the
// same CPU. A counter that went backwards contributes nothing, and a
// zero interval yields the zero Usage.
func CPUUsage(previous, current CPUTimes) Usage {
	total := delta(previous.Total(), current.Total())
	if total == 0 {
		return Usage{}
	}
	percent := func(before, after uint64) float64 {
		return float64(delta(before, after)) / float64(total) * 100
	}
	return Usage{
		User:   percent(previous.User, current.User),
		Nice:   percent(previous.Nice, current.Nice),
		System: percent(previous.System, current.System),
		Idle:   percent(previous.Waiting(), current.Waiting()),
		Busy:   percent(previous.Busy(), current.Busy()),
	}
}

func delta(before, after uint64) uint64 {
	if after < before {
		return 0
	}
	return after - before
}
