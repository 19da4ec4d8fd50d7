// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"slices"
	"sync"
	"time"
)

// FakeClock is a Clock whose time moves only when Advance is called.
// Safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	alarms  []*alarm
	changed *sync.Cond
}

// alarm is a pending After, Sleep, or ticker deadline.
type alarm struct {
	deadline time.Time
	channel  chan time.Time

	// period is non-zero for tickers, which re-arm after firing.
	period time.Duration

	cancelled bool
}

// Fake returns a FakeClock reading initial.
func Fake(initial time.Time) *FakeClock {
	fake := &FakeClock{now: initial}
	fake.changed = sync.NewCond(&fake.mu)
	return fake
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After registers a one-shot alarm d from now.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.now
		return channel
	}
	c.armLocked(&alarm{deadline: c.now.Add(d), channel: channel})
	return channel
}

// NewTicker registers a repeating alarm.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &alarm{deadline: c.now.Add(d), channel: make(chan time.Time, 1), period: d}
	c.armLocked(entry)

	return &Ticker{
		C: entry.channel,
		stop: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			entry.cancelled = true
		},
		reset: func(d time.Duration) {
			c.mu.Lock()
			defer c.mu.Unlock()
			entry.period = d
			entry.deadline = c.now.Add(d)
			entry.cancelled = false
			if !slices.Contains(c.alarms, entry) {
				c.armLocked(entry)
			}
		},
	}
}

// Sleep blocks until Advance moves the clock past now+d.
func (c *FakeClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	<-c.After(d)
}

// Advance moves the clock forward by d and fires every alarm whose
// deadline is not after the new time, earliest first. A ticker whose
// period fits several times into d fires once per period; ticks that
// find the channel full are dropped.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	for {
		due := c.takeDueLocked()
		if len(due) == 0 {
			return
		}
		for _, entry := range due {
			select {
			case entry.channel <- c.now:
			default:
			}
		}
	}
}

// takeDueLocked removes expired alarms, re-arms tickers for their
// next period, and returns what should fire in deadline order.
func (c *FakeClock) takeDueLocked() []*alarm {
	var due []*alarm
	pending := c.alarms[:0]
	for _, entry := range c.alarms {
		switch {
		case entry.cancelled:
		case entry.deadline.After(c.now):
			pending = append(pending, entry)
		default:
			due = append(due, entry)
		}
	}
	slices.SortStableFunc(due, func(a, b *alarm) int { return a.deadline.Compare(b.deadline) })

	for _, entry := range due {
		if entry.period > 0 {
			entry.deadline = entry.deadline.Add(entry.period)
			pending = append(pending, entry)
		}
	}
	clear(c.alarms[len(pending):])
	c.alarms = pending
	return due
}

// WaitForTimers blocks until at least n alarms are pending. Call it
// before Advance when another goroutine is about to register a ticker
// or start an After wait.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pendingLocked() < n {
		c.changed.Wait()
	}
}

// PendingCount returns the number of live alarms.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingLocked()
}

func (c *FakeClock) armLocked(entry *alarm) {
	c.alarms = append(c.alarms, entry)
	c.changed.Broadcast()
}

func (c *FakeClock) pendingLocked() int {
	count := 0
	for _, entry := range c.alarms {
		if !entry.cancelled {
			count++
		}
	}
	return count
}
