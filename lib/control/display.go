// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/lcdd/lib/clock"
	"github.com/bureau-foundation/lcdd/lib/codec"
	"github.com/bureau-foundation/lcdd/lib/displaylist"
)

// Panel is the output side the display actions poke after moving the
// cursor. *output.Driver implements it.
type Panel interface {
	Refresh() (bool, error)
	Frames() uint64
}

// Selection is the reply to the navigation actions.
type Selection struct {
	Node     string `cbor:"node"`
	Clock    bool   `cbor:"clock"`
	Position int    `cbor:"position"`
	Clients  int    `cbor:"clients"`
}

// Status is the reply to "status".
type Status struct {
	Clients         int    `cbor:"clients"`
	Position        int    `cbor:"position"`
	Node            string `cbor:"node"`
	Clock           bool   `cbor:"clock"`
	UptimeSeconds   int64  `cbor:"uptime_seconds"`
	FramesWritten   uint64 `cbor:"frames_written"`
	FramesDisplayed uint64 `cbor:"frames_displayed"`
	Version         string `cbor:"version"`
	BinaryDigest    string `cbor:"binary_digest,omitempty"`
}

// DisplayConfig describes the daemon reported by "status".
type DisplayConfig struct {
	Version      string
	BinaryDigest string
}

// Display implements the display actions against one list.
type Display struct {
	list    *displaylist.List
	panel   Panel
	clock   clock.Clock
	logger  *slog.Logger
	config  DisplayConfig
	started time.Time
}

// NewDisplay returns the action set for list. panel may be nil, in
// which case the screen changes on the driver's next tick.
func NewDisplay(list *displaylist.List, panel Panel, clk clock.Clock, logger *slog.Logger, config DisplayConfig) *Display {
	return &Display{
		list:    list,
		panel:   panel,
		clock:   clk,
		logger:  logger,
		config:  config,
		started: clk.Now(),
	}
}

// Register adds the display actions to server.
func (d *Display) Register(server *Server) {
	server.Handle("next", d.stepper(d.list.Next))
	server.Handle("previous", d.stepper(d.list.Previous))
	server.Handle("mode", d.selector(d.list.SelectSentinel))
	server.Handle("submode", d.selector(d.list.SelectHead))
	server.Handle("status", d.status)
}

type stepRequest struct {
	Count int `cbor:"count"`
}

// maxStep bounds "count" so a typo cannot spin the list for long.
const maxStep = 64

func (d *Display) stepper(step func() displaylist.Handle) ActionFunc {
	return func(ctx context.Context, raw []byte) (any, error) {
		var request stepRequest
		if err := codec.Unmarshal(raw, &request); err != nil {
			return nil, fmt.Errorf("invalid request: %w", err)
		}
		switch {
		case request.Count < 0:
			return nil, fmt.Errorf("count must not be negative, got %d", request.Count)
		case request.Count > maxStep:
			return nil, fmt.Errorf("count must be at most %d, got %d", maxStep, request.Count)
		case request.Count == 0:
			request.Count = 1
		}
		for range request.Count {
			step()
		}
		return d.selection(), nil
	}
}

func (d *Display) selector(selectScreen func() displaylist.Handle) ActionFunc {
	return func(ctx context.Context, raw []byte) (any, error) {
		selectScreen()
		return d.selection(), nil
	}
}

// selection pushes the new screen out and describes it.
func (d *Display) selection() Selection {
	if d.panel != nil {
		if _, err := d.panel.Refresh(); err != nil {
			d.logger.Warn("refreshing after navigation", "error", err)
		}
	}
	current := d.list.Current()
	stats := d.list.Stats()
	return Selection{
		Node:     current.String(),
		Clock:    d.list.IsSentinel(current),
		Position: stats.Position,
		Clients:  stats.Clients,
	}
}

func (d *Display) status(ctx context.Context, raw []byte) (any, error) {
	current := d.list.Current()
	stats := d.list.Stats()
	status := Status{
		Clients:       stats.Clients,
		Position:      stats.Position,
		Node:          current.String(),
		Clock:         d.list.IsSentinel(current),
		UptimeSeconds: int64(d.clock.Now().Sub(d.started) / time.Second),
		FramesWritten: stats.FramesWritten,
		Version:       d.config.Version,
		BinaryDigest:  d.config.BinaryDigest,
	}
	if d.panel != nil {
		status.FramesDisplayed = d.panel.Frames()
	}
	return status, nil
}
