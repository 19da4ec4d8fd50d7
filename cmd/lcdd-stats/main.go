// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/lcdd/lib/clock"
	"github.com/bureau-foundation/lcdd/lib/lcd"
	"github.com/bureau-foundation/lcdd/lib/process"
	"github.com/bureau-foundation/lcdd/lib/protocol"
	"github.com/bureau-foundation/lcdd/lib/sysstat"
	"github.com/bureau-foundation/lcdd/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

func run(args []string) error {
	var (
		address     string
		iface       string
		startScreen string
		cycle       time.Duration
		interval    time.Duration
		absolute    bool
		logLevel    string
		showVersion bool
	)
	flagSet := pflag.NewFlagSet("lcdd-stats", pflag.ContinueOnError)
	flagSet.StringVar(&address, "address", protocol.DefaultAddress, "lcdd frame address")
	flagSet.StringVarP(&iface, "interface", "i", "", "network interface for the net screen (e.g. eth0)")
	flagSet.StringVar(&startScreen, "screen", "cpu", "first screen: cpu, memory, swap, net, or load")
	flagSet.DurationVar(&cycle, "cycle", 0, "rotate to the next screen this often (0 stays on --screen)")
	flagSet.DurationVar(&interval, "interval", time.Second, "sampling and frame interval")
	flagSet.BoolVar(&absolute, "net-scale-absolute", false, "scale net graphs to the largest rate ever seen instead of the visible window")
	flagSet.StringVar(&logLevel, "log-level", "info", "debug, info, warn, or error")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Printf("lcdd-stats %s\n", version.Info())
		return nil
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	first, err := parseScreen(startScreen)
	if err != nil {
		return err
	}
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive, got %v", interval)
	}
	if cycle < 0 {
		return fmt.Errorf("--cycle must not be negative, got %v", cycle)
	}

	logger, err := process.NewLogger(logLevel, "auto")
	if err != nil {
		return err
	}

	if iface != "" {
		if _, err := sysstat.ReadInterface(iface); err != nil {
			logger.Warn("network screen disabled", "interface", iface, "error", err)
			iface = ""
		}
	}
	if first == screenNet && iface == "" {
		return fmt.Errorf("--screen net needs a valid --interface")
	}

	ctx, stop := process.SignalContext()
	defer stop()

	client, err := protocol.Dial(ctx, address)
	if err != nil {
		return err
	}
	defer client.Close()
	logger.Info("connected to lcdd", "address", address, "screen", first.String(), "cycle", cycle)

	stats := &statsClient{
		sink:     client,
		sampler:  newSampler(hostSources(), iface, absolute, logger),
		clock:    clock.Real(),
		logger:   logger,
		interval: interval,
		cycle:    cycle,
		current:  first,
		haveNet:  iface != "",
	}
	return stats.run(ctx)
}

// frameSink receives finished frames; *protocol.Client in production.
type frameSink interface {
	SendFrame(pixels []byte) error
}

type statsClient struct {
	sink     frameSink
	sampler  *sampler
	clock    clock.Clock
	logger   *slog.Logger
	interval time.Duration
	cycle    time.Duration
	current  screen
	haveNet  bool

	frame      *lcd.Frame
	lastSwitch time.Time
}

// run sends a frame every interval until ctx is cancelled or the
// daemon goes away.
func (c *statsClient) run(ctx context.Context) error {
	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		if err := c.tick(c.clock.Now()); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// tick samples, advances the screen rotation, and sends one frame.
func (c *statsClient) tick(now time.Time) error {
	if c.frame == nil {
		c.frame = lcd.NewFrame()
		c.lastSwitch = now
	}
	if c.cycle > 0 && now.Sub(c.lastSwitch) >= c.cycle {
		c.current = c.current.next(c.haveNet)
		c.lastSwitch = now
		c.logger.Debug("switching screen", "screen", c.current.String())
	}

	render(c.frame, c.current, c.sampler.sample())
	if err := c.sink.SendFrame(c.frame.Pixels); err != nil {
		return fmt.Errorf("sending frame: %w", err)
	}
	return nil
}
