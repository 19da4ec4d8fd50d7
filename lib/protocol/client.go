// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/bureau-foundation/lcdd/lib/lcd"
)

// ErrBadGreeting is returned by Dial when the peer's greeting does not
// match.
var ErrBadGreeting = errors.New("protocol: unexpected greeting")

// Dialer holds the options for connecting to a daemon. The zero value
// expects the default greeting and waits up to five seconds for it.
type Dialer struct {
	// Greeting is the string the daemon is expected to send. Empty
	// means Greeting.
	Greeting string

	// Timeout bounds the connect and the greeting read.
	Timeout time.Duration
}

// Client is a connected frame client. It is not safe for concurrent
// use.
type Client struct {
	conn net.Conn
}

// Dial connects to a daemon with default options.
func Dial(ctx context.Context, address string) (*Client, error) {
	return (&Dialer{}).Dial(ctx, address)
}

// Dial connects to address, checks the greeting, and selects the
// pixel buffer. The returned client is ready for SendFrame.
func (d *Dialer) Dial(ctx context.Context, address string) (*Client, error) {
	greeting := d.Greeting
	if greeting == "" {
		greeting = Greeting
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", address, err)
	}

	if err := handshake(conn, greeting, timeout); err != nil {
		conn.Close()
		return nil, err
	}
	return &Client{conn: conn}, nil
}

func handshake(conn net.Conn, greeting string, timeout time.Duration) error {
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return fmt.Errorf("setting handshake deadline: %w", err)
	}

	received := make([]byte, len(greeting))
	if _, err := io.ReadFull(conn, received); err != nil {
		return fmt.Errorf("reading greeting: %w", err)
	}
	if string(received) != greeting {
		return fmt.Errorf("%w: %q", ErrBadGreeting, received)
	}

	if _, err := io.WriteString(conn, Selector); err != nil {
		return fmt.Errorf("sending buffer selector: %w", err)
	}
	return conn.SetDeadline(time.Time{})
}

// SendFrame writes one frame. pixels must be exactly lcd.FrameSize
// bytes.
func (c *Client) SendFrame(pixels []byte) error {
	if len(pixels) != lcd.FrameSize {
		return fmt.Errorf("protocol: frame is %d bytes, want %d", len(pixels), lcd.FrameSize)
	}
	if _, err := c.conn.Write(pixels); err != nil {
		return fmt.Errorf("sending frame: %w", err)
	}
	return nil
}

// Close ends the session.
func (c *Client) Close() error {
	return c.conn.Close()
}
