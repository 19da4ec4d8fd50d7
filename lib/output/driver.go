// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/lcdd/lib/clock"
	"github.com/bureau-foundation/lcdd/lib/displaylist"
	"github.com/bureau-foundation/lcdd/lib/lcd"
)

// DriverConfig sets the driver's pacing.
type DriverConfig struct {
	// RefreshInterval is the tick period. Default 100ms.
	RefreshInterval time.Duration

	// ClockInterval is how often the clock screen is offered a
	// redraw while it is current. Default 1s.
	ClockInterval time.Duration
}

// Driver copies the current frame to a Backend.
type Driver struct {
	list    *displaylist.List
	backend Backend
	clock   clock.Clock
	logger  *slog.Logger
	config  DriverConfig

	// mu is the backend lock. It also guards the scratch buffers and
	// the dedupe state.
	mu         sync.Mutex
	pixels     []byte
	packed     []byte
	lastDigest [32]byte
	written    bool
	lastClock  time.Time
	frames     uint64
	lastHandle displaylist.Handle
}

// NewDriver returns a driver for list writing to backend.
func NewDriver(list *displaylist.List, backend Backend, clk clock.Clock, logger *slog.Logger, config DriverConfig) *Driver {
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = 100 * time.Millisecond
	}
	if config.ClockInterval <= 0 {
		config.ClockInterval = time.Second
	}
	return &Driver{
		list:    list,
		backend: backend,
		clock:   clk,
		logger:  logger,
		config:  config,
		pixels:  make([]byte, lcd.FrameSize),
		packed:  make([]byte, lcd.PackedSize),
	}
}

// Run refreshes the display every RefreshInterval until ctx is
// cancelled or the display list is destroyed. Backend errors are
// logged and retried on the next tick.
func (d *Driver) Run(ctx context.Context) error {
	ticker := d.clock.NewTicker(d.config.RefreshInterval)
	defer ticker.Stop()

	for {
		if _, err := d.Refresh(); err != nil {
			if errors.Is(err, displaylist.ErrClosed) {
				return nil
			}
			d.logger.Warn("display refresh failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Refresh pushes the current frame to the backend if it differs from
// the last frame written. Reports whether a write happened. Safe to
// call from any goroutine; the control server calls it after moving
// the cursor so key presses show up without waiting for a tick.
func (d *Driver) Refresh() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	if d.list.IsSentinel(d.list.Current()) && now.Sub(d.lastClock) >= d.config.ClockInterval {
		d.list.RenderClock(now)
		d.lastClock = now
	}

	handle, _, err := d.list.Snapshot(d.pixels)
	if err != nil {
		return false, err
	}
	lcd.PackInto(d.packed, d.pixels)

	digest := blake3.Sum256(d.packed)
	if d.written && digest == d.lastDigest {
		return false, nil
	}

	if err := d.backend.WritePixmap(d.packed); err != nil {
		return false, fmt.Errorf("writing frame from %s: %w", handle, err)
	}
	if handle != d.lastHandle {
		d.logger.Debug("display switched", "node", handle.String())
	}
	d.lastDigest = digest
	d.lastHandle = handle
	d.written = true
	d.frames++
	return true, nil
}

// Frames returns how many frames reached the backend.
func (d *Driver) Frames() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// Close closes the backend.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.backend.Close()
}
