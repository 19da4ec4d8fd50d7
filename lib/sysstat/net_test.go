// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sysstat

import (
	"errors"
	"slices"
	"testing"
)

const netDevFixture = `Inter-|   Receive                                                |  Transmit
 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
    lo:  123456     100    0    0    0     0          0         0   123456     100    0    0    0     0       0          0
  eth0:98765432   70000    0    2    0     0          0        12 12345678   40000    0    0    0     0       0          0
`

func TestReadNetworkFrom(t *testing.T) {
	path := writeFixture(t, "dev", netDevFixture)
	counters, err := readNetworkFrom(path)
	if err != nil {
		t.Fatalf("readNetworkFrom: %v", err)
	}
	want := []NetCounters{
		{Interface: "lo", ReceiveBytes: 123456, TransmitBytes: 123456},
		{Interface: "eth0", ReceiveBytes: 98765432, TransmitBytes: 12345678},
	}
	if !slices.Equal(counters, want) {
		t.Errorf("counters = %+v, want %+v", counters, want)
	}
}

func TestReadInterfaceFrom(t *testing.T) {
	path := writeFixture(t, "dev", netDevFixture)

	counters, err := readInterfaceFrom(path, "eth0")
	if err != nil {
		t.Fatalf("readInterfaceFrom(eth0): %v", err)
	}
	if counters.ReceiveBytes != 98765432 {
		t.Errorf("ReceiveBytes = %d, want 98765432", counters.ReceiveBytes)
	}

	if _, err := readInterfaceFrom(path, "wlan0"); !errors.Is(err, ErrNoInterface) {
		t.Errorf("readInterfaceFrom(wlan0) error = %v, want ErrNoInterface", err)
	}
}

func TestReadNetworkFromMalformed(t *testing.T) {
	path := writeFixture(t, "dev", "  eth0: 1 2 3\n")
	if _, err := readNetworkFrom(path); !errors.Is(err, ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}

func observe(history *NetHistory, receive, transmit uint64) {
	history.Observe(NetCounters{Interface: "eth0", ReceiveBytes: receive, TransmitBytes: transmit})
}

func TestNetHistoryBaseline(t *testing.T) {
	history := NewNetHistory(4, false)
	if history.Observe(NetCounters{ReceiveBytes: 1000}) {
		t.Error("first Observe returned true, want false (baseline only)")
	}
	if len(history.Samples()) != 0 {
		t.Errorf("Samples() after baseline = %v, want empty", history.Samples())
	}
	if history.Latest() != (NetRate{}) {
		t.Errorf("Latest() after baseline = %+v, want zero", history.Latest())
	}
}

func TestNetHistoryWindowPeak(t *testing.T) {
	history := NewNetHistory(3, false)
	observe(history, 0, 0)
	observe(history, 500, 50)  // 500/50
	observe(history, 600, 60)  // 100/10
	observe(history, 800, 90)  // 200/30
	observe(history, 900, 100) // 100/10, evicts 500/50

	want := []NetRate{{100, 10}, {200, 30}, {100, 10}}
	if got := history.Samples(); !slices.Equal(got, want) {
		t.Errorf("Samples() = %v, want %v", got, want)
	}
	if got := history.Peak(); got != (NetRate{Receive: 200, Transmit: 30}) {
		t.Errorf("Peak() = %+v, want {200 30}", got)
	}
	if got := history.Latest(); got != (NetRate{Receive: 100, Transmit: 10}) {
		t.Errorf("Latest() = %+v, want {100 10}", got)
	}
}

func TestNetHistoryAbsolutePeak(t *testing.T) {
	history := NewNetHistory(2, true)
	observe(history, 0, 0)
	observe(history, 500, 50)
	observe(history, 600, 60)
	observe(history, 700, 70)

	if got := history.Peak(); got != (NetRate{Receive: 500, Transmit: 50}) {
		t.Errorf("Peak() = %+v, want the evicted maximum {500 50}", got)
	}
}

func TestNetHistoryCounterReset(t *testing.T) {
	history := NewNetHistory(2, false)
	observe(history, 1000, 1000)
	observe(history, 10, 10)
	if got := history.Latest(); got != (NetRate{}) {
		t.Errorf("Latest() after reset = %+v, want zero", got)
	}
}
