// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/lcdd/lib/clock"
	"github.com/bureau-foundation/lcdd/lib/config"
	"github.com/bureau-foundation/lcdd/lib/control"
	"github.com/bureau-foundation/lcdd/lib/displaylist"
	"github.com/bureau-foundation/lcdd/lib/lcdserver"
	"github.com/bureau-foundation/lcdd/lib/output"
	"github.com/bureau-foundation/lcdd/lib/process"
	"github.com/bureau-foundation/lcdd/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

type options struct {
	configPath  string
	listen      string
	logLevel    string
	showVersion bool
}

func parseFlags(args []string) (*options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("lcdd", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "path to the YAML configuration (default: $"+config.EnvironmentVariable+" or built-in defaults)")
	flagSet.StringVar(&opts.listen, "listen", "", "TCP address for frame clients (overrides the config file)")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, or error (overrides the config file)")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if flagSet.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	return &opts, nil
}

// loadConfig resolves the configuration and applies flag overrides.
func loadConfig(opts *options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.listen != "" {
		cfg.Listen = opts.listen
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if opts.showVersion {
		fmt.Printf("lcdd %s\n", version.Full())
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, err := process.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	ctx, stop := process.SignalContext()
	defer stop()

	listener, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Listen, err)
	}
	return serve(ctx, cfg, listener.(*net.TCPListener), clock.Real(), logger)
}

// serve runs the daemon on listener until ctx is cancelled. The
// listener is closed on return.
func serve(ctx context.Context, cfg *config.Config, listener *net.TCPListener, clk clock.Clock, logger *slog.Logger) error {
	backend, err := output.Open(cfg.Output.Backend, cfg.Output.Path)
	if err != nil {
		listener.Close()
		return err
	}

	list := displaylist.New(clk, logger)
	driver := output.NewDriver(list, backend, clk, logger, output.DriverConfig{
		RefreshInterval: cfg.RefreshInterval,
		ClockInterval:   cfg.ClockInterval,
	})
	defer driver.Close()

	digest, err := version.SelfDigest()
	if err != nil {
		logger.Warn("cannot digest own executable", "error", err)
	}
	controlServer := control.NewServer(cfg.ControlSocket, logger)
	control.NewDisplay(list, driver, clk, logger, control.DisplayConfig{
		Version:      version.Short(),
		BinaryDigest: digest,
	}).Register(controlServer)

	acceptor := lcdserver.New(lcdserver.Config{
		Greeting:         cfg.Greeting,
		PollInterval:     cfg.PollInterval,
		HandshakeTimeout: cfg.HandshakeTimeout,
		MaxClients:       cfg.MaxClients,
	}, list, clk, logger)

	logger.Info("lcdd running",
		"version", version.Info(),
		"listen", listener.Addr().String(),
		"control_socket", cfg.ControlSocket,
		"output", cfg.Output.Backend,
	)

	// The acceptor owns the list's lifetime: it destroys the list on
	// exit, which in turn stops the driver. Cancelling runCtx on any
	// component failure brings the rest down.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wait     sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(component string, err error) {
		if err == nil {
			return
		}
		errOnce.Do(func() { firstErr = fmt.Errorf("%s: %w", component, err) })
		cancel()
	}

	wait.Add(3)
	go func() {
		defer wait.Done()
		fail("acceptor", acceptor.Serve(runCtx, listener))
		cancel()
	}()
	go func() {
		defer wait.Done()
		fail("output driver", driver.Run(runCtx))
	}()
	go func() {
		defer wait.Done()
		fail("control socket", controlServer.Serve(runCtx, nil))
	}()
	wait.Wait()

	logger.Info("lcdd stopped", "frames_displayed", driver.Frames())
	return firstErr
}
