// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/lcdd/lib/protocol"
)

// EnvironmentVariable names the file Load reads.
const EnvironmentVariable = "LCDD_CONFIG"

// Config is the daemon configuration.
type Config struct {
	// Listen is the TCP address for frame clients.
	// Default: 127.0.0.1:15550
	Listen string `yaml:"listen"`

	// Greeting is sent to each client on connect.
	// Default: "G15 daemon HELLO"
	Greeting string `yaml:"greeting"`

	// ControlSocket is the Unix socket for lcdctl.
	// Default: ${XDG_RUNTIME_DIR:-/tmp}/lcdd.sock
	ControlSocket string `yaml:"control_socket"`

	// PollInterval bounds each wait for a new client.
	// Default: 500ms
	PollInterval time.Duration `yaml:"poll_interval"`

	// RefreshInterval is the output driver's tick.
	// Default: 100ms
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// ClockInterval is how often the clock screen is offered a
	// redraw while it is shown.
	// Default: 1s
	ClockInterval time.Duration `yaml:"clock_interval"`

	// HandshakeTimeout bounds the greeting and buffer selection.
	// Default: 5s
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`

	// MaxClients caps concurrent clients; 0 means unlimited.
	// Default: 0
	MaxClients int `yaml:"max_clients"`

	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// OutputConfig selects where frames go.
type OutputConfig struct {
	// Backend is "discard", "file", or "terminal". The terminal
	// backend draws on stdout and shares the TTY with text logs on
	// stderr, so pair it with log.format json or a redirected stderr.
	// Default: discard
	Backend string `yaml:"backend"`

	// Path is the file or device for the file backend.
	Path string `yaml:"path"`
}

// LogConfig controls the daemon logger.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	// Default: info
	Level string `yaml:"level"`

	// Format is "text", "json", or "auto" (text on a terminal,
	// JSON otherwise).
	// Default: auto
	Format string `yaml:"format"`
}

var (
	backends = []string{"discard", "file", "terminal"}
	levels   = []string{"debug", "info", "warn", "error"}
	formats  = []string{"auto", "text", "json"}
)

// Default returns a configuration with every field set.
func Default() *Config {
	cfg := &Config{
		Listen:           protocol.DefaultAddress,
		Greeting:         protocol.Greeting,
		ControlSocket:    "${XDG_RUNTIME_DIR:-/tmp}/lcdd.sock",
		PollInterval:     500 * time.Millisecond,
		RefreshInterval:  100 * time.Millisecond,
		ClockInterval:    time.Second,
		HandshakeTimeout: 5 * time.Second,
		Output:           OutputConfig{Backend: "discard"},
		Log:              LogConfig{Level: "info", Format: "auto"},
	}
	cfg.expandVariables()
	return cfg
}

// Load reads the file named by LCDD_CONFIG, or returns Default when
// the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults and expands variables. The
// result is not validated; call Validate.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) expandVariables() {
	c.ControlSocket = expandVars(c.ControlSocket)
	c.Output.Path = expandVars(c.Output.Path)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces ${VAR} and ${VAR:-default}. Unset and empty
// variables both take the default.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		errs = append(errs, fmt.Errorf("listen: %w", err))
	}
	if c.Greeting == "" {
		errs = append(errs, errors.New("greeting must not be empty"))
	}
	if !filepath.IsAbs(c.ControlSocket) {
		errs = append(errs, fmt.Errorf("control_socket must be an absolute path, got %q", c.ControlSocket))
	}

	for _, interval := range []struct {
		name  string
		value time.Duration
	}{
		{"poll_interval", c.PollInterval},
		{"refresh_interval", c.RefreshInterval},
		{"clock_interval", c.ClockInterval},
		{"handshake_timeout", c.HandshakeTimeout},
	} {
		if interval.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", interval.name, interval.value))
		}
	}

	if c.MaxClients < 0 {
		errs = append(errs, fmt.Errorf("max_clients must not be negative, got %d", c.MaxClients))
	}
	if !slices.Contains(backends, c.Output.Backend) {
		errs = append(errs, fmt.Errorf("output.backend must be one of %v, got %q", backends, c.Output.Backend))
	}
	if c.Output.Backend == "file" && c.Output.Path == "" {
		errs = append(errs, errors.New("output.path is required for the file backend"))
	}
	if !slices.Contains(levels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of %v, got %q", levels, c.Log.Level))
	}
	if !slices.Contains(formats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of %v, got %q", formats, c.Log.Format))
	}

	return errors.Join(errs...)
}
