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

// ErrNoInterface is returned by ReadInterface for an interface that
// does not appear in /proc/net/dev.
var ErrNoInterface = errors.New("sysstat: no such interface")

// NetCounters are cumulative byte counters for one interface.
type NetCounters struct {
	Interface     string
	ReceiveBytes  uint64
	TransmitBytes uint64
}

// ReadNetwork reads every interface from /proc/net/dev in kernel
// order.
func ReadNetwork() ([]NetCounters, error) {
	return readNetworkFrom("/proc/net/dev")
}

// ReadInterface reads the counters of a single interface.
func ReadInterface(name string) (NetCounters, error) {
	return readInterfaceFrom("/proc/net/dev", name)
}

func readInterfaceFrom(path, name string) (NetCounters, error) {
	all, err := readNetworkFrom(path)
	if err != nil {
		return NetCounters{}, err
	}
	for _, counters := range all {
		if counters.Interface == name {
			return counters, nil
		}
	}
	return NetCounters{}, fmt.Errorf("%q: %w", name, ErrNoInterface)
}

func readNetworkFrom(path string) ([]NetCounters, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var result []NetCounters
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		// Header lines have no "name:" prefix before the counters;
		// "Inter-|" and " face |" both lack a colon.
		name, rest, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		// rx: bytes packets errs drop fifo frame compressed multicast
		// tx: bytes ...
		if len(fields) < 9 {
			return nil, fmt.Errorf("%s: interface %q: %w", path, strings.TrimSpace(name), ErrMalformed)
		}
		received, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: interface %q receive bytes: %w", path, strings.TrimSpace(name), ErrMalformed)
		}
		transmitted, err := strconv.ParseUint(fields[8], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: interface %q transmit bytes: %w", path, strings.TrimSpace(name), ErrMalformed)
		}
		result = append(result, NetCounters{
			Interface:     strings.TrimSpace(name),
			ReceiveBytes:  received,
			TransmitBytes: transmitted,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return result, nil
}

// NetRate is the number of bytes moved during one sampling interval.
type NetRate struct {
	Receive  uint64
	Transmit uint64
}

// NetHistory keeps the most recent per-interval rates for an interface
// and the peak used to scale graphs.
//
// In absolute mode the peak is the largest rate ever observed. In the
// default mode it is the largest rate still in the window, so the
// graph rescales as bursts age out.
type NetHistory struct {
	samples  []NetRate
	next     int
	filled   int
	absolute bool
	peak     NetRate
	previous NetCounters
	primed   bool
}

// NewNetHistory returns a history holding size samples. size below one
// is treated as one.
func NewNetHistory(size int, absolute bool) *NetHistory {
	size = max(size, 1)
	return &NetHistory{samples: make([]NetRate, size), absolute: absolute}
}

// Observe records a new reading. The first reading only establishes
// the baseline and returns false.
func (h *NetHistory) Observe(counters NetCounters) bool {
	previous, primed := h.previous, h.primed
	h.previous, h.primed = counters, true
	if !primed {
		return false
	}

	rate := NetRate{
		Receive:  delta(previous.ReceiveBytes, counters.ReceiveBytes),
		Transmit: delta(previous.TransmitBytes, counters.TransmitBytes),
	}
	h.samples[h.next] = rate
	h.next = (h.next + 1) % len(h.samples)
	h.filled = min(h.filled+1, len(h.samples))

	if h.absolute {
		h.peak.Receive = max(h.peak.Receive, rate.Receive)
		h.peak.Transmit = max(h.peak.Transmit, rate.Transmit)
		return true
	}
	h.peak = NetRate{}
	for _, sample := range h.Samples() {
		h.peak.Receive = max(h.peak.Receive, sample.Receive)
		h.peak.Transmit = max(h.peak.Transmit, sample.Transmit)
	}
	return true
}

// Samples returns the recorded rates, oldest first.
func (h *NetHistory) Samples() []NetRate {
	result := make([]NetRate, 0, h.filled)
	start := (h.next - h.filled + len(h.samples)) % len(h.samples)
	for i := range h.filled {
		result = append(result, h.samples[(start+i)%len(h.samples)])
	}
	return result
}

// Latest returns the most recent rate, or the zero rate before two
// readings have been observed.
func (h *NetHistory) Latest() NetRate {
	if h.filled == 0 {
		return NetRate{}
	}
	return h.samples[(h.next-1+len(h.samples))%len(h.samples)]
}

// Peak returns the scaling peak.
func (h *NetHistory) Peak() NetRate {
	return h.peak
}
