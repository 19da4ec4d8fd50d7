// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/lcdd/lib/codec"
	"github.com/bureau-foundation/lcdd/lib/config"
	"github.com/bureau-foundation/lcdd/lib/control"
	"github.com/bureau-foundation/lcdd/lib/process"
	"github.com/bureau-foundation/lcdd/lib/version"
)

var actions = []string{"next", "previous", "mode", "submode", "status"}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		process.Fatal(err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var (
		socketPath  string
		count       int
		raw         bool
		timeout     time.Duration
		showVersion bool
	)
	flagSet := pflag.NewFlagSet("lcdctl", pflag.ContinueOnError)
	flagSet.StringVar(&socketPath, "socket", "", "control socket path (default: from $"+config.EnvironmentVariable+" or the built-in default)")
	flagSet.IntVarP(&count, "count", "n", 1, "number of screens to step for next and previous")
	flagSet.BoolVar(&raw, "raw", false, "print the response in CBOR diagnostic notation")
	flagSet.DurationVar(&timeout, "timeout", 5*time.Second, "give up after this long")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lcdctl [flags] <%s>\n\n", strings.Join(actions, "|"))
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Fprintf(stdout, "lcdctl %s\n", version.Info())
		return nil
	}

	if flagSet.NArg() != 1 {
		return fmt.Errorf("expected one action (%s), got %d arguments", strings.Join(actions, ", "), flagSet.NArg())
	}
	action := flagSet.Arg(0)
	if !slices.Contains(actions, action) {
		return fmt.Errorf("unknown action %q (want one of %s)", action, strings.Join(actions, ", "))
	}

	if socketPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		socketPath = cfg.ControlSocket
	}

	var fields map[string]any
	if action == "next" || action == "previous" {
		fields = map[string]any{"count": count}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := control.NewClient(socketPath)
	if action == "status" {
		var status control.Status
		data, err := client.Call(ctx, action, nil, &status)
		if err != nil {
			return err
		}
		if raw {
			return printDiagnostic(stdout, data)
		}
		printStatus(stdout, status)
		return nil
	}

	var selection control.Selection
	data, err := client.Call(ctx, action, fields, &selection)
	if err != nil {
		return err
	}
	if raw {
		return printDiagnostic(stdout, data)
	}
	printSelection(stdout, selection)
	return nil
}

func printDiagnostic(w io.Writer, data codec.RawMessage) error {
	text, err := codec.Diagnose(data)
	if err != nil {
		return fmt.Errorf("rendering response: %w", err)
	}
	fmt.Fprintln(w, text)
	return nil
}

func describeScreen(node string, isClock bool, position int) string {
	if isClock {
		return "clock"
	}
	return fmt.Sprintf("client %d (%s)", position, node)
}

func printSelection(w io.Writer, selection control.Selection) {
	fmt.Fprintf(w, "showing %s of %d clients\n",
		describeScreen(selection.Node, selection.Clock, selection.Position), selection.Clients)
}

func printStatus(w io.Writer, status control.Status) {
	started := time.Unix(0, 0)
	uptime := started.Add(time.Duration(status.UptimeSeconds) * time.Second)

	fmt.Fprintf(w, "version:   %s\n", status.Version)
	if status.BinaryDigest != "" {
		digest := status.BinaryDigest
		if len(digest) > 16 {
			digest = digest[:16]
		}
		fmt.Fprintf(w, "binary:    %s\n", digest)
	}
	fmt.Fprintf(w, "uptime:    %s\n", strings.TrimSpace(humanize.RelTime(started, uptime, "", "")))
	fmt.Fprintf(w, "clients:   %d\n", status.Clients)
	fmt.Fprintf(w, "showing:   %s\n", describeScreen(status.Node, status.Clock, status.Position))
	fmt.Fprintf(w, "received:  %s frames\n", humanize.Comma(int64(status.FramesWritten)))
	fmt.Fprintf(w, "displayed: %s frames\n", humanize.Comma(int64(status.FramesDisplayed)))
}
