// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lcdserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/lcdd/lib/clock"
	"github.com/bureau-foundation/lcdd/lib/displaylist"
	"github.com/bureau-foundation/lcdd/lib/lcd"
	"github.com/bureau-foundation/lcdd/lib/netutil"
	"github.com/bureau-foundation/lcdd/lib/protocol"
)

// ErrUnsupportedBuffer is the handler's exit error when a client
// selects a buffer type other than protocol.BufferPixel.
var ErrUnsupportedBuffer = errors.New("lcdserver: unsupported buffer type")

// Config controls the acceptor and handlers. Zero fields take the
// defaults noted on each.
type Config struct {
	// Greeting is sent to every client. Default protocol.Greeting.
	Greeting string

	// PollInterval bounds each Accept wait. Default 500ms.
	PollInterval time.Duration

	// HandshakeTimeout bounds the greeting write and the selector
	// read. Default 5s.
	HandshakeTimeout time.Duration

	// MaxClients caps concurrent clients. Zero means no limit.
	MaxClients int
}

func (c Config) withDefaults() Config {
	if c.Greeting == "" {
		c.Greeting = protocol.Greeting
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 500 * time.Millisecond
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = 5 * time.Second
	}
	return c
}

// Listener is a net.Listener that supports accept deadlines, such as
// *net.TCPListener and *net.UnixListener.
type Listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

// Server runs the acceptor and the client handlers for one display
// list.
type Server struct {
	config Config
	list   *displaylist.List
	clock  clock.Clock
	logger *slog.Logger

	handlers     sync.WaitGroup
	exits        chan handlerExit
	shuttingDown atomic.Bool

	accepted atomic.Uint64
	rejected atomic.Uint64
	strays   atomic.Int64
}

// Stats counts the clients a server has handled.
type Stats struct {
	// Accepted is the number of clients admitted to the display list.
	Accepted uint64

	// Rejected is the number of clients refused over MaxClients.
	Rejected uint64

	// Strays is the number of clients still attached when Serve
	// began shutting down. Zero until Serve returns.
	Strays int
}

// Stats returns the server's counters.
func (s *Server) Stats() Stats {
	return Stats{
		Accepted: s.accepted.Load(),
		Rejected: s.rejected.Load(),
		Strays:   int(s.strays.Load()),
	}
}

// handlerExit is what a handler reports on the completion channel.
type handlerExit struct {
	handle  displaylist.Handle
	remote  string
	frames  uint64
	elapsed time.Duration
	err     error
}

// New returns a server feeding list.
func New(config Config, list *displaylist.List, clk clock.Clock, logger *slog.Logger) *Server {
	return &Server{
		config: config.withDefaults(),
		list:   list,
		clock:  clk,
		logger: logger,
		exits:  make(chan handlerExit, 16),
	}
}

// Serve accepts clients on listener until ctx is cancelled, then
// closes the listener, destroys the display list, and waits for every
// handler. Returns nil on a clean shutdown.
func (s *Server) Serve(ctx context.Context, listener Listener) error {
	defer listener.Close()

	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		s.supervise()
	}()

	s.logger.Info("accepting frame clients",
		"address", listener.Addr().String(),
		"max_clients", s.config.MaxClients,
	)

	acceptErr := s.acceptLoop(ctx, listener)

	listener.Close()
	// Destroy runs before handlers are told to stop so that every
	// attached client is still linked and counted.
	strays := s.list.Destroy()
	s.strays.Store(int64(strays))
	s.shuttingDown.Store(true)
	s.handlers.Wait()
	close(s.exits)
	<-supervisorDone

	s.logger.Info("frame server stopped",
		"stray_clients", strays,
		"accepted", s.accepted.Load(),
		"rejected", s.rejected.Load(),
	)
	return acceptErr
}

func (s *Server) acceptLoop(ctx context.Context, listener Listener) error {
	for ctx.Err() == nil {
		// Deadlines are wall-clock; the injected clock only paces
		// retries.
		if err := listener.SetDeadline(time.Now().Add(s.config.PollInterval)); err != nil {
			return fmt.Errorf("setting accept deadline: %w", err)
		}

		conn, err := listener.Accept()
		if err != nil {
			switch {
			case netutil.IsTimeout(err):
				continue
			case errors.Is(err, net.ErrClosed):
				return nil
			}
			s.logger.Warn("accept failed", "error", err)
			select {
			case <-ctx.Done():
			case <-s.clock.After(s.config.PollInterval):
			}
			continue
		}
		s.admit(conn)
	}
	return nil
}

// admit links a node for conn and starts its handler. A client over
// the limit has its node rolled back and the connection closed.
func (s *Server) admit(conn net.Conn) {
	remote := conn.RemoteAddr().String()

	handle, err := s.list.Add()
	if err != nil {
		s.logger.Warn("cannot add client node", "remote_addr", remote, "error", err)
		conn.Close()
		return
	}

	if limit := s.config.MaxClients; limit > 0 && s.list.Len() > limit {
		if err := s.list.Remove(handle); err != nil {
			s.logger.Warn("rolling back client node", "remote_addr", remote, "error", err)
		}
		conn.Close()
		s.rejected.Add(1)
		s.logger.Warn("client limit reached, connection refused",
			"remote_addr", remote,
			"max_clients", limit,
		)
		return
	}

	if err := s.list.Bind(handle, conn); err != nil {
		s.list.Remove(handle)
		conn.Close()
		s.logger.Warn("binding client connection", "remote_addr", remote, "error", err)
		return
	}

	s.accepted.Add(1)
	s.logger.Info("client connected", "remote_addr", remote, "node", handle.String(), "clients", s.list.Len())

	s.handlers.Add(1)
	go func() {
		defer s.handlers.Done()
		s.exits <- s.serveClient(conn, handle, remote)
	}()
}

// supervise logs handler exits until the exit channel is closed.
func (s *Server) supervise() {
	for exit := range s.exits {
		attributes := []any{
			"remote_addr", exit.remote,
			"node", exit.handle.String(),
			"frames", exit.frames,
			"duration", exit.elapsed,
		}
		switch {
		case exit.err == nil, netutil.IsExpectedCloseError(exit.err), errors.Is(exit.err, displaylist.ErrClosed):
			s.logger.Info("client disconnected", attributes...)
		default:
			s.logger.Warn("client handler failed", append(attributes, "error", exit.err)...)
		}
	}
}

// serveClient runs one session. It always closes conn and removes the
// node before returning.
func (s *Server) serveClient(conn net.Conn, handle displaylist.Handle, remote string) handlerExit {
	started := s.clock.Now()
	exit := handlerExit{handle: handle, remote: remote}

	defer func() {
		conn.Close()
		err := s.list.Remove(handle)
		if err != nil && !errors.Is(err, displaylist.ErrStaleHandle) && !errors.Is(err, displaylist.ErrClosed) {
			s.logger.Warn("removing client node", "node", handle.String(), "error", err)
		}
	}()

	if err := s.negotiate(conn); err != nil {
		exit.err = err
		exit.elapsed = s.clock.Now().Sub(started)
		return exit
	}

	buffer := make([]byte, lcd.FrameSize)
	for !s.shuttingDown.Load() {
		if _, err := io.ReadFull(conn, buffer); err != nil {
			exit.err = err
			break
		}
		if err := s.list.WriteFrame(handle, buffer); err != nil {
			exit.err = err
			break
		}
		exit.frames++
	}
	exit.elapsed = s.clock.Now().Sub(started)
	return exit
}

// negotiate sends the greeting and reads the buffer selector.
func (s *Server) negotiate(conn net.Conn) error {
	deadline := time.Now().Add(s.config.HandshakeTimeout)

	if err := conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if _, err := io.WriteString(conn, s.config.Greeting); err != nil {
		return fmt.Errorf("sending greeting: %w", err)
	}

	if err := conn.SetReadDeadline(deadline); err != nil {
		return err
	}
	var selector [protocol.SelectorSize]byte
	if _, err := io.ReadFull(conn, selector[:]); err != nil {
		return fmt.Errorf("reading buffer selector: %w", err)
	}
	if selector[0] != protocol.BufferPixel {
		return fmt.Errorf("%w: %q", ErrUnsupportedBuffer, selector[:])
	}

	return conn.SetDeadline(time.Time{})
}
