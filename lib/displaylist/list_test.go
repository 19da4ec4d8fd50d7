// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package displaylist

import (
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/lcdd/lib/clock"
	"github.com/bureau-foundation/lcdd/lib/lcd"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestList(t *testing.T) (*List, *clock.FakeClock) {
	t.Helper()
	fake := clock.Fake(epoch)
	return New(fake, slog.New(slog.DiscardHandler)), fake
}

func mustAdd(t *testing.T, list *List) Handle {
	t.Helper()
	handle, err := list.Add()
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	return handle
}

func filledFrame(value byte) []byte {
	return bytes.Repeat([]byte{value}, lcd.FrameSize)
}

// closeRecorder is an io.Closer that counts Close calls.
type closeRecorder struct {
	mu     sync.Mutex
	closed int
}

func (c *closeRecorder) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func (c *closeRecorder) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestNewHoldsOnlySentinel(t *testing.T) {
	list, _ := newTestList(t)

	if list.Len() != 0 {
		t.Fatalf("Len = %d, want 0", list.Len())
	}
	current := list.Current()
	if !list.IsSentinel(current) {
		t.Fatal("current is not the sentinel on a new list")
	}
	if list.Head() != current {
		t.Fatal("head and current differ on a new list")
	}
	if handles := list.Handles(); len(handles) != 1 || handles[0] != current {
		t.Fatalf("Handles = %v, want just the sentinel", handles)
	}
	if list.Contains(Handle{}) {
		t.Fatal("zero Handle reported as live")
	}
}

func TestAddMakesNodeHeadAndCurrent(t *testing.T) {
	list, _ := newTestList(t)

	first := mustAdd(t, list)
	if list.Current() != first || list.Head() != first {
		t.Fatal("first Add did not become head and current")
	}
	second := mustAdd(t, list)
	if list.Current() != second || list.Head() != second {
		t.Fatal("second Add did not become head and current")
	}
	if list.Len() != 2 {
		t.Fatalf("Len = %d, want 2", list.Len())
	}
	if list.IsSentinel(second) {
		t.Fatal("client node reported as sentinel")
	}
}

func TestAddPreservesSuccessorChain(t *testing.T) {
	list, _ := newTestList(t)
	sentinel := list.Sentinel()

	first := mustAdd(t, list)
	second := mustAdd(t, list)

	// Move back to first and insert between first and second.
	if got := list.Previous(); got != first {
		t.Fatalf("Previous = %v, want %v", got, first)
	}
	third := mustAdd(t, list)

	want := []Handle{sentinel, first, third, second}
	if got := list.Handles(); !slices.Equal(got, want) {
		t.Fatalf("Handles = %v, want %v", got, want)
	}

	// The node that was after first is still reachable backwards.
	if got := list.Previous(); got != first {
		t.Fatalf("Previous from third = %v, want %v", got, first)
	}
	list.Next()
	if got := list.Next(); got != second {
		t.Fatalf("Next from third = %v, want %v", got, second)
	}
}

func TestRemoveCurrentStepsBack(t *testing.T) {
	list, _ := newTestList(t)
	first := mustAdd(t, list)
	second := mustAdd(t, list)

	if err := list.Remove(second); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if list.Current() != first {
		t.Fatalf("current = %v, want %v", list.Current(), first)
	}
	if list.Head() != first {
		t.Fatalf("head = %v, want %v", list.Head(), first)
	}

	if err := list.Remove(first); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !list.IsSentinel(list.Current()) || !list.IsSentinel(list.Head()) {
		t.Fatal("emptied list does not point head and current at the sentinel")
	}
	if list.Len() != 0 {
		t.Fatalf("Len = %d, want 0", list.Len())
	}
}

func TestRemoveNonCurrentKeepsCurrent(t *testing.T) {
	list, _ := newTestList(t)
	first := mustAdd(t, list)
	second := mustAdd(t, list)

	if err := list.Remove(first); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if list.Current() != second {
		t.Fatalf("current = %v, want %v", list.Current(), second)
	}
	want := []Handle{list.Sentinel(), second}
	if got := list.Handles(); !slices.Equal(got, want) {
		t.Fatalf("Handles = %v, want %v", got, want)
	}
}

func TestRemoveHeadRetreatsToSuccessorAfterSentinel(t *testing.T) {
	list, _ := newTestList(t)
	first := mustAdd(t, list)

	// Insert directly after the sentinel: order S, second, first.
	list.SelectSentinel()
	second := mustAdd(t, list)
	if list.Head() != second {
		t.Fatal("head did not move to the new node")
	}

	if err := list.Remove(second); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if list.Head() != first {
		t.Fatalf("head = %v, want successor %v", list.Head(), first)
	}
	if !list.IsSentinel(list.Current()) {
		t.Fatal("current did not step back to the sentinel")
	}
}

func TestRemoveErrors(t *testing.T) {
	list, _ := newTestList(t)

	if err := list.Remove(list.Sentinel()); !errors.Is(err, ErrSentinel) {
		t.Fatalf("Remove(sentinel) = %v, want ErrSentinel", err)
	}

	handle := mustAdd(t, list)
	if err := list.Remove(handle); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := list.Remove(handle); !errors.Is(err, ErrStaleHandle) {
		t.Fatalf("second Remove = %v, want ErrStaleHandle", err)
	}
	if err := list.Remove(Handle{index: 99, generation: 1}); !errors.Is(err, ErrStaleHandle) {
		t.Fatalf("Remove(out of range) = %v, want ErrStaleHandle", err)
	}
}

func TestRecycledSlotInvalidatesOldHandle(t *testing.T) {
	list, _ := newTestList(t)
	old := mustAdd(t, list)
	if err := list.Remove(old); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	recycled := mustAdd(t, list)
	if recycled.index != old.index {
		t.Fatalf("slot not reused: %v then %v", old, recycled)
	}
	if recycled == old {
		t.Fatal("reused slot kept the same generation")
	}
	if err := list.WriteFrame(old, filledFrame(1)); !errors.Is(err, ErrStaleHandle) {
		t.Fatalf("WriteFrame(old) = %v, want ErrStaleHandle", err)
	}
	if !list.Contains(recycled) || list.Contains(old) {
		t.Fatal("Contains does not distinguish generations")
	}
}

func TestNavigationWraps(t *testing.T) {
	list, _ := newTestList(t)
	sentinel := list.Sentinel()
	first := mustAdd(t, list)
	second := mustAdd(t, list)

	list.SelectSentinel()
	forward := []Handle{first, second, sentinel, first}
	for i, want := range forward {
		if got := list.Next(); got != want {
			t.Fatalf("Next #%d = %v, want %v", i, got, want)
		}
	}

	list.SelectSentinel()
	backward := []Handle{second, first, sentinel, second}
	for i, want := range backward {
		if got := list.Previous(); got != want {
			t.Fatalf("Previous #%d = %v, want %v", i, got, want)
		}
	}

	if got := list.SelectHead(); got != second {
		t.Fatalf("SelectHead = %v, want %v", got, second)
	}
	if got := list.SelectSentinel(); got != sentinel {
		t.Fatalf("SelectSentinel = %v, want %v", got, sentinel)
	}
}

func TestNavigationOnEmptyListStaysOnSentinel(t *testing.T) {
	list, _ := newTestList(t)
	if !list.IsSentinel(list.Next()) || !list.IsSentinel(list.Previous()) {
		t.Fatal("navigation left the sentinel on an empty list")
	}
}

func TestWriteFrameStampsSerialAndTime(t *testing.T) {
	list, fake := newTestList(t)
	first := mustAdd(t, list)
	second := mustAdd(t, list)

	if err := list.WriteFrame(first, filledFrame(1)); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	fake.Advance(time.Second)
	if err := list.WriteFrame(second, filledFrame(1)); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	firstFrame, err := list.Frame(first)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	secondFrame, err := list.Frame(second)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if firstFrame.Serial == 0 || secondFrame.Serial <= firstFrame.Serial {
		t.Fatalf("serials not increasing: %d then %d", firstFrame.Serial, secondFrame.Serial)
	}
	if !firstFrame.UpdatedAt.Equal(epoch) || !secondFrame.UpdatedAt.Equal(epoch.Add(time.Second)) {
		t.Fatalf("UpdatedAt = %v, %v", firstFrame.UpdatedAt, secondFrame.UpdatedAt)
	}
	if !bytes.Equal(firstFrame.Pixels, filledFrame(1)) {
		t.Fatal("frame content not copied")
	}
	if got := list.Stats().FramesWritten; got != 2 {
		t.Fatalf("FramesWritten = %d, want 2", got)
	}
}

func TestWriteFrameRejectsWrongSize(t *testing.T) {
	list, _ := newTestList(t)
	handle := mustAdd(t, list)
	if err := list.WriteFrame(handle, make([]byte, lcd.FrameSize-1)); err == nil {
		t.Fatal("WriteFrame accepted a short frame")
	}
	frame, err := list.Frame(handle)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if frame.Serial != 0 {
		t.Fatal("rejected write stamped the frame")
	}
}

func TestFrameReturnsCopy(t *testing.T) {
	list, _ := newTestList(t)
	handle := mustAdd(t, list)
	frame, err := list.Frame(handle)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	frame.Pixels[0] = 7

	again, err := list.Frame(handle)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if again.Pixels[0] != lcd.Background {
		t.Fatal("mutating a Frame copy changed the list")
	}
}

func TestSnapshotFollowsCurrent(t *testing.T) {
	list, _ := newTestList(t)
	handle := mustAdd(t, list)
	if err := list.WriteFrame(handle, filledFrame(1)); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	buffer := make([]byte, lcd.FrameSize)
	got, serial, err := list.Snapshot(buffer)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if got != handle || serial == 0 {
		t.Fatalf("Snapshot = (%v, %d), want (%v, >0)", got, serial, handle)
	}
	if !bytes.Equal(buffer, filledFrame(1)) {
		t.Fatal("snapshot content differs from the written frame")
	}

	list.SelectSentinel()
	got, _, err = list.Snapshot(buffer)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !list.IsSentinel(got) {
		t.Fatal("snapshot did not follow current to the sentinel")
	}
	if !bytes.Equal(buffer, filledFrame(0)) {
		t.Fatal("sentinel snapshot is not blank")
	}

	if _, _, err := list.Snapshot(make([]byte, 10)); err == nil {
		t.Fatal("Snapshot accepted a short buffer")
	}
}

func TestRenderClockTargetsSentinel(t *testing.T) {
	list, fake := newTestList(t)
	handle := mustAdd(t, list)

	if !list.RenderClock(fake.Now()) {
		t.Fatal("first RenderClock did not draw")
	}
	if list.RenderClock(fake.Now().Add(30 * time.Second)) {
		t.Fatal("RenderClock redrew within the throttle window")
	}

	clockFrame, err := list.Frame(list.Sentinel())
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if bytes.Equal(clockFrame.Pixels, filledFrame(0)) {
		t.Fatal("clock was not drawn into the sentinel")
	}
	clientFrame, err := list.Frame(handle)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if !bytes.Equal(clientFrame.Pixels, filledFrame(0)) {
		t.Fatal("clock leaked into a client frame")
	}
}

func TestBindRejectsSentinelAndStale(t *testing.T) {
	list, _ := newTestList(t)
	if err := list.Bind(list.Sentinel(), &closeRecorder{}); !errors.Is(err, ErrSentinel) {
		t.Fatalf("Bind(sentinel) = %v, want ErrSentinel", err)
	}
	handle := mustAdd(t, list)
	list.Remove(handle)
	if err := list.Bind(handle, &closeRecorder{}); !errors.Is(err, ErrStaleHandle) {
		t.Fatalf("Bind(stale) = %v, want ErrStaleHandle", err)
	}
}

func TestWriteFrameRejectsSentinel(t *testing.T) {
	list, fake := newTestList(t)
	list.RenderClock(fake.Now())
	before, err := list.Frame(list.Sentinel())
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	written := list.Stats().FramesWritten

	if err := list.WriteFrame(list.Sentinel(), filledFrame(1)); !errors.Is(err, ErrSentinel) {
		t.Fatalf("WriteFrame(sentinel) = %v, want ErrSentinel", err)
	}

	after, err := list.Frame(list.Sentinel())
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if !bytes.Equal(after.Pixels, before.Pixels) {
		t.Error("clock pixels changed after a refused write")
	}
	if after.Serial != before.Serial {
		t.Errorf("sentinel serial = %d, want %d", after.Serial, before.Serial)
	}
	if got := list.Stats().FramesWritten; got != written {
		t.Errorf("FramesWritten = %d, want %d", got, written)
	}
}

func TestDestroyDrainsAndClosesStrays(t *testing.T) {
	var logs bytes.Buffer
	list := New(clock.Fake(epoch), slog.New(slog.NewTextHandler(&logs, nil)))

	recorders := make([]*closeRecorder, 3)
	handles := make([]Handle, 3)
	for i := range recorders {
		recorders[i] = &closeRecorder{}
		handles[i] = mustAdd(t, list)
		if err := list.Bind(handles[i], recorders[i]); err != nil {
			t.Fatalf("Bind: %v", err)
		}
	}
	// One client leaves cleanly before shutdown.
	if err := list.Remove(handles[0]); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if strays := list.Destroy(); strays != 2 {
		t.Fatalf("Destroy = %d, want 2", strays)
	}
	if recorders[0].count() != 0 {
		t.Error("Destroy closed a connection whose node was already removed")
	}
	for i := 1; i < 3; i++ {
		if recorders[i].count() != 1 {
			t.Errorf("stray %d closed %d times, want 1", i, recorders[i].count())
		}
	}
	if !strings.Contains(logs.String(), "removed stray client nodes") || !strings.Contains(logs.String(), "count=2") {
		t.Fatalf("missing stray log line, got %q", logs.String())
	}

	if _, err := list.Add(); !errors.Is(err, ErrClosed) {
		t.Fatalf("Add after Destroy = %v, want ErrClosed", err)
	}
	if err := list.Remove(handles[1]); !errors.Is(err, ErrStaleHandle) {
		t.Fatalf("Remove after Destroy = %v, want ErrStaleHandle", err)
	}
	if _, _, err := list.Snapshot(make([]byte, lcd.FrameSize)); !errors.Is(err, ErrClosed) {
		t.Fatalf("Snapshot after Destroy = %v, want ErrClosed", err)
	}
	if list.Handles() != nil {
		t.Fatal("Handles not empty after Destroy")
	}
	if list.Destroy() != 0 {
		t.Fatal("second Destroy reported strays")
	}
}

func TestDestroyEmptyListLogsNothing(t *testing.T) {
	var logs bytes.Buffer
	list := New(clock.Fake(epoch), slog.New(slog.NewTextHandler(&logs, nil)))
	if strays := list.Destroy(); strays != 0 {
		t.Fatalf("Destroy = %d, want 0", strays)
	}
	if logs.Len() != 0 {
		t.Fatalf("unexpected log output %q", logs.String())
	}
}

func TestStatsPosition(t *testing.T) {
	list, _ := newTestList(t)
	mustAdd(t, list)
	mustAdd(t, list)

	stats := list.Stats()
	if stats.Clients != 2 || stats.Position != 2 {
		t.Fatalf("Stats = %+v, want 2 clients at position 2", stats)
	}
	list.SelectSentinel()
	if got := list.Stats().Position; got != 0 {
		t.Fatalf("Position on sentinel = %d, want 0", got)
	}
}

func TestConcurrentChurn(t *testing.T) {
	list, _ := newTestList(t)
	frame := filledFrame(1)

	var group sync.WaitGroup
	for worker := 0; worker < 16; worker++ {
		group.Add(1)
		go func() {
			defer group.Done()
			for range 50 {
				handle, err := list.Add()
				if err != nil {
					t.Errorf("Add: %v", err)
					return
				}
				if err := list.WriteFrame(handle, frame); err != nil {
					t.Errorf("WriteFrame: %v", err)
				}
				list.Next()
				if err := list.Remove(handle); err != nil {
					t.Errorf("Remove: %v", err)
				}
			}
		}()
	}
	group.Add(1)
	go func() {
		defer group.Done()
		buffer := make([]byte, lcd.FrameSize)
		for range 500 {
			if _, _, err := list.Snapshot(buffer); err != nil {
				t.Errorf("Snapshot: %v", err)
				return
			}
			list.Previous()
		}
	}()
	group.Wait()

	if list.Len() != 0 {
		t.Fatalf("Len = %d after churn, want 0", list.Len())
	}
	if !list.IsSentinel(list.Head()) || !list.IsSentinel(list.Current()) {
		t.Fatal("head or current not back on the sentinel after churn")
	}
	if got := len(list.Handles()); got != 1 {
		t.Fatalf("Handles has %d entries, want 1", got)
	}
}
