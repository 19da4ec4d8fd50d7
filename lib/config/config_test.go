// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lcdd.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	cfg := Default()

	if cfg.Listen != "127.0.0.1:15550" {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if cfg.Greeting != "G15 daemon HELLO" {
		t.Errorf("greeting = %q", cfg.Greeting)
	}
	if cfg.ControlSocket != "/run/user/1000/lcdd.sock" {
		t.Errorf("control_socket = %q", cfg.ControlSocket)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("poll_interval = %v", cfg.PollInterval)
	}
	if cfg.Output.Backend != "discard" || cfg.Log.Level != "info" || cfg.Log.Format != "auto" {
		t.Errorf("output/log defaults = %+v %+v", cfg.Output, cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default does not validate: %v", err)
	}
}

func TestDefaultControlSocketFallback(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")
	if got := Default().ControlSocket; got != "/tmp/lcdd.sock" {
		t.Fatalf("control_socket = %q, want /tmp/lcdd.sock", got)
	}
}

func TestLoadFileOverridesOnlyGivenFields(t *testing.T) {
	path := writeConfig(t, `
listen: 0.0.0.0:16000
poll_interval: 250ms
max_clients: 4
output:
  backend: file
  path: /var/lib/lcdd/panel.bin
log:
  level: debug
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Listen != "0.0.0.0:16000" {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("poll_interval = %v", cfg.PollInterval)
	}
	if cfg.MaxClients != 4 {
		t.Errorf("max_clients = %d", cfg.MaxClients)
	}
	if cfg.Output.Backend != "file" || cfg.Output.Path != "/var/lib/lcdd/panel.bin" {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "auto" {
		t.Errorf("log = %+v", cfg.Log)
	}
	// Untouched fields keep their defaults.
	if cfg.Greeting != "G15 daemon HELLO" || cfg.RefreshInterval != 100*time.Millisecond {
		t.Errorf("defaults lost: greeting=%q refresh=%v", cfg.Greeting, cfg.RefreshInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadFileExpandsVariables(t *testing.T) {
	t.Setenv("LCDD_STATE", "/srv/lcdd")
	t.Setenv("LCDD_UNSET_FOR_TEST", "")
	path := writeConfig(t, `
control_socket: ${LCDD_STATE}/control.sock
output:
  backend: file
  path: ${LCDD_UNSET_FOR_TEST:-/dev/shm}/panel
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.ControlSocket != "/srv/lcdd/control.sock" {
		t.Errorf("control_socket = %q", cfg.ControlSocket)
	}
	if cfg.Output.Path != "/dev/shm/panel" {
		t.Errorf("output.path = %q", cfg.Output.Path)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile of a missing file succeeded")
	}
	if _, err := LoadFile(writeConfig(t, "listen: [unterminated")); err == nil {
		t.Error("LoadFile accepted malformed YAML")
	}
	if _, err := LoadFile(writeConfig(t, "poll_interval: soon")); err == nil {
		t.Error("LoadFile accepted a malformed duration")
	}
}

func TestLoadUsesEnvironment(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load without %s: %v", EnvironmentVariable, err)
	}
	if cfg.Listen != Default().Listen {
		t.Fatalf("Load without a file did not return defaults")
	}

	t.Setenv(EnvironmentVariable, writeConfig(t, "greeting: hello\n"))
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Greeting != "hello" {
		t.Fatalf("greeting = %q, want hello", cfg.Greeting)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Listen = "no-port"
	cfg.Greeting = ""
	cfg.ControlSocket = "relative.sock"
	cfg.PollInterval = 0
	cfg.HandshakeTimeout = -time.Second
	cfg.MaxClients = -1
	cfg.Output = OutputConfig{Backend: "file"}
	cfg.Log = LogConfig{Level: "loud", Format: "xml"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted a broken config")
	}
	for _, fragment := range []string{
		"listen:",
		"greeting must not be empty",
		"control_socket must be an absolute path",
		"poll_interval must be positive",
		"handshake_timeout must be positive",
		"max_clients must not be negative",
		"output.path is required",
		"log.level must be one of",
		"log.format must be one of",
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error missing %q:\n%v", fragment, err)
		}
	}

	cfg = Default()
	cfg.Output.Backend = "lcd-over-carrier-pigeon"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "output.backend") {
		t.Errorf("unknown backend: %v", err)
	}
}
