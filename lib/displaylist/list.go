// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package displaylist

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bureau-foundation/lcdd/lib/clock"
	"github.com/bureau-foundation/lcdd/lib/lcd"
	"github.com/bureau-foundation/lcdd/lib/raster"
)

var (
	// ErrClosed is returned by Add and the content accessors once
	// Destroy has run.
	ErrClosed = errors.New("displaylist: list is closed")

	// ErrSentinel is returned when a caller tries to remove, bind, or
	// write client pixels into the permanent clock node.
	ErrSentinel = errors.New("displaylist: the sentinel node is reserved for the clock")

	// ErrStaleHandle is returned for a Handle whose node has been
	// removed.
	ErrStaleHandle = errors.New("displaylist: stale handle")
)

// sentinel is the arena index of the permanent clock node.
const sentinel = 0

// noNode marks an absent link.
const noNode = -1

// Handle identifies one node. The zero Handle never refers to a live
// node.
type Handle struct {
	index      int
	generation uint32
}

// String renders the handle for log output.
func (h Handle) String() string {
	return fmt.Sprintf("node-%d.%d", h.index, h.generation)
}

type node struct {
	frame *lcd.Frame
	conn  io.Closer

	prev int
	next int

	generation uint32
	live       bool
}

// List is the display list. Create one with New; the zero value is not
// usable.
type List struct {
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.Mutex
	nodes   []node
	free    []int
	head    int
	current int
	clients int
	closed  bool

	// serial stamps every frame change, client or clock.
	serial uint64

	// written counts complete client frames accepted by WriteFrame.
	written uint64
}

// New returns a list holding only the sentinel, with head and current
// both pointing at it.
func New(clk clock.Clock, logger *slog.Logger) *List {
	list := &List{
		clock:  clk,
		logger: logger,
		nodes:  make([]node, 1, 8),
	}
	list.nodes[sentinel] = node{
		frame:      lcd.NewFrame(),
		prev:       noNode,
		next:       noNode,
		generation: 1,
		live:       true,
	}
	return list
}

// Add creates a node with a blank frame and links it immediately after
// current, keeping whatever followed current behind the new node. The
// new node becomes both head and current, so a freshly connected
// client is shown straight away.
func (l *List) Add() (Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return Handle{}, ErrClosed
	}

	index := l.allocateLocked()
	after := l.current
	successor := l.nodes[after].next

	created := &l.nodes[index]
	created.frame = lcd.NewFrame()
	created.conn = nil
	created.prev = after
	created.next = successor
	created.generation++
	created.live = true

	if successor != noNode {
		l.nodes[successor].prev = index
	}
	l.nodes[after].next = index

	l.head = index
	l.current = index
	l.clients++

	return Handle{index: index, generation: created.generation}, nil
}

func (l *List) allocateLocked() int {
	if count := len(l.free); count > 0 {
		index := l.free[count-1]
		l.free = l.free[:count-1]
		return index
	}
	l.nodes = append(l.nodes, node{})
	return len(l.nodes) - 1
}

// Remove unlinks the node and releases its frame. When the node was
// current, current steps back to its predecessor. When it was head,
// head retreats to the predecessor, or to the successor if the
// predecessor is the sentinel, or to the sentinel if nothing else is
// left. The bound connection, if any, is not closed.
func (l *List) Remove(h Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	index, err := l.resolveLocked(h)
	if err != nil {
		return err
	}
	if index == sentinel {
		return ErrSentinel
	}
	l.unlinkLocked(index)
	return nil
}

// unlinkLocked removes a live non-sentinel node from the chain and
// returns its slot to the free list.
func (l *List) unlinkLocked(index int) {
	removed := &l.nodes[index]
	prev, next := removed.prev, removed.next

	if l.current == index {
		l.current = prev
	}

	// Every client node has a predecessor: at worst the sentinel.
	l.nodes[prev].next = next
	if next != noNode {
		l.nodes[next].prev = prev
	}

	if l.head == index {
		switch {
		case prev != sentinel:
			l.head = prev
		case next != noNode:
			l.head = next
		default:
			l.head = sentinel
		}
	}

	removed.frame = nil
	removed.conn = nil
	removed.prev = noNode
	removed.next = noNode
	removed.live = false
	l.free = append(l.free, index)
	l.clients--
}

// Destroy removes every client node, closing any connection bound to
// it so that its handler unblocks, then releases the sentinel and
// closes the list. Returns the number of client nodes that were still
// present. Calling Destroy again returns 0.
func (l *List) Destroy() int {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return 0
	}

	var connections []io.Closer
	strays := 0
	for l.head != sentinel {
		index := l.head
		if conn := l.nodes[index].conn; conn != nil {
			connections = append(connections, conn)
		}
		l.unlinkLocked(index)
		strays++
	}

	anchor := &l.nodes[sentinel]
	anchor.frame = nil
	anchor.next = noNode
	anchor.generation++
	l.current = sentinel
	l.closed = true
	l.mu.Unlock()

	for _, conn := range connections {
		if err := conn.Close(); err != nil {
			l.logger.Debug("closing stray client connection", "error", err)
		}
	}
	if strays > 0 {
		l.logger.Warn("removed stray client nodes", "count", strays)
	}
	return strays
}

// resolveLocked maps a handle to its arena index.
func (l *List) resolveLocked(h Handle) (int, error) {
	if h.index < 0 || h.index >= len(l.nodes) {
		return 0, ErrStaleHandle
	}
	target := &l.nodes[h.index]
	if !target.live || target.generation != h.generation {
		return 0, ErrStaleHandle
	}
	if l.closed {
		return 0, ErrClosed
	}
	return h.index, nil
}

func (l *List) handleLocked(index int) Handle {
	return Handle{index: index, generation: l.nodes[index].generation}
}

// Current returns the node being shown.
func (l *List) Current() Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handleLocked(l.current)
}

// Head returns the most recently added live node, or the sentinel.
func (l *List) Head() Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handleLocked(l.head)
}

// Sentinel returns the handle of the clock node.
func (l *List) Sentinel() Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handleLocked(sentinel)
}

// IsSentinel reports whether h refers to the clock node.
func (l *List) IsSentinel(h Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.closed && h == l.handleLocked(sentinel)
}

// Next moves current one node forward in list order, wrapping from
// the last node back to the sentinel. Returns the new current.
func (l *List) Next() Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	if next := l.nodes[l.current].next; next != noNode {
		l.current = next
	} else {
		l.current = sentinel
	}
	return l.handleLocked(l.current)
}

// Previous moves current one node backward, wrapping from the
// sentinel to the last node. Returns the new current.
func (l *List) Previous() Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	if prev := l.nodes[l.current].prev; prev != noNode {
		l.current = prev
	} else {
		l.current = l.lastLocked()
	}
	return l.handleLocked(l.current)
}

// SelectSentinel shows the clock screen.
func (l *List) SelectSentinel() Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = sentinel
	return l.handleLocked(l.current)
}

// SelectHead shows the most recently connected client, or the clock
// when there is none.
func (l *List) SelectHead() Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = l.head
	return l.handleLocked(l.current)
}

func (l *List) lastLocked() int {
	index := sentinel
	for l.nodes[index].next != noNode {
		index = l.nodes[index].next
	}
	return index
}

// Bind attaches the connection serving h. Destroy closes bound
// connections that are still attached.
func (l *List) Bind(h Handle, conn io.Closer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	index, err := l.resolveLocked(h)
	if err != nil {
		return err
	}
	if index == sentinel {
		return ErrSentinel
	}
	l.nodes[index].conn = conn
	return nil
}

// WriteFrame replaces the pixels of h's frame and stamps it with a new
// serial and the current time. pixels must be exactly lcd.FrameSize
// bytes. The sentinel only carries the clock and is refused.
func (l *List) WriteFrame(h Handle, pixels []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	index, err := l.resolveLocked(h)
	if err != nil {
		return err
	}
	if index == sentinel {
		return ErrSentinel
	}
	frame := l.nodes[index].frame
	if err := frame.CopyFrom(pixels); err != nil {
		return fmt.Errorf("writing %s: %w", h, err)
	}
	l.stampLocked(frame, l.clock.Now())
	l.written++
	return nil
}

func (l *List) stampLocked(frame *lcd.Frame, now time.Time) {
	l.serial++
	frame.Serial = l.serial
	frame.UpdatedAt = now
}

// RenderClock draws the clock into the sentinel frame when it is due
// for a redraw. Reports whether anything changed.
func (l *List) RenderClock(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false
	}
	frame := l.nodes[sentinel].frame
	if !raster.RenderClock(frame, now) {
		return false
	}
	l.serial++
	frame.Serial = l.serial
	return true
}

// Snapshot copies the pixels of the current node into dst, which must
// hold lcd.FrameSize bytes. Returns the node's handle and serial.
func (l *List) Snapshot(dst []byte) (Handle, uint64, error) {
	if len(dst) < lcd.FrameSize {
		return Handle{}, 0, fmt.Errorf("displaylist: snapshot buffer is %d bytes, want %d", len(dst), lcd.FrameSize)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return Handle{}, 0, ErrClosed
	}
	frame := l.nodes[l.current].frame
	copy(dst, frame.Pixels)
	return l.handleLocked(l.current), frame.Serial, nil
}

// Frame returns a copy of h's frame.
func (l *List) Frame(h Handle) (*lcd.Frame, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	index, err := l.resolveLocked(h)
	if err != nil {
		return nil, err
	}
	source := l.nodes[index].frame
	duplicate := lcd.NewFrame()
	copy(duplicate.Pixels, source.Pixels)
	duplicate.Serial = source.Serial
	duplicate.UpdatedAt = source.UpdatedAt
	return duplicate, nil
}

// Len returns the number of client nodes, excluding the sentinel.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clients
}

// Contains reports whether h refers to a live node.
func (l *List) Contains(h Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.resolveLocked(h)
	return err == nil
}

// Handles returns every live node in list order, starting with the
// sentinel. Empty after Destroy.
func (l *List) Handles() []Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	handles := make([]Handle, 0, l.clients+1)
	for index := sentinel; index != noNode; index = l.nodes[index].next {
		handles = append(handles, l.handleLocked(index))
	}
	return handles
}

// Stats is a point-in-time summary of the list.
type Stats struct {
	// Clients is the number of client nodes.
	Clients int

	// Position is the list-order index of current; 0 is the clock.
	Position int

	// FramesWritten counts complete client frames since New.
	FramesWritten uint64

	Closed bool
}

// Stats returns a summary for status reporting.
func (l *List) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	position := 0
	for index := sentinel; index != noNode && index != l.current; index = l.nodes[index].next {
		position++
	}
	return Stats{
		Clients:       l.clients,
		Position:      position,
		FramesWritten: l.written,
		Closed:        l.closed,
	}
}
