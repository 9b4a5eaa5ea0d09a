package netcode

import (
	"testing"

	"github.com/fbettag/why2025-badge-mode7-ble-racer/protocol"
)

func TestHistoryStoreAndSampleInsideWindow(t *testing.T) {
	h := NewInputHistory(nil)
	in := protocol.InputFrame{Player: 1, Throttle: 80}

	if !h.Store(10, in) {
		t.Fatalf("store inside the window must succeed")
	}
	got, ok := h.Sample(10)
	if !ok {
		t.Fatalf("stored frame must be sampleable")
	}
	if got.Throttle != 80 || got.Frame != 10 {
		t.Fatalf("sample returned %+v", got)
	}
	if _, ok := h.Sample(11); ok {
		t.Fatalf("unstored frame must not be sampleable")
	}
}

func TestHistoryDropsFramesOutsideWindow(t *testing.T) {
	h := NewInputHistory(nil)
	if h.Store(HistoryCapacity, protocol.InputFrame{}) {
		t.Fatalf("frame at startFrame+capacity must be dropped")
	}
	if !h.Store(HistoryCapacity-1, protocol.InputFrame{}) {
		t.Fatalf("frame at the window's upper edge must be accepted")
	}
}

func TestHistoryRebaseSlidesWindow(t *testing.T) {
	h := NewInputHistory(nil)
	for frame := uint32(0); frame < 5; frame++ {
		h.Store(frame, protocol.InputFrame{Throttle: int8(frame)})
	}

	// Not yet past startFrame+count+capacity/2, so nothing moves.
	h.Rebase(30)
	if h.StartFrame() != 0 {
		t.Fatalf("premature rebase moved startFrame to %d", h.StartFrame())
	}

	h.Rebase(40)
	if got := h.StartFrame(); got != 40-HistoryCapacity/4 {
		t.Fatalf("rebase startFrame = %d, want %d", got, 40-HistoryCapacity/4)
	}
	if got := h.Count(); got != HistoryCapacity/4 {
		t.Fatalf("rebase count = %d, want %d", got, HistoryCapacity/4)
	}

	if _, ok := h.Sample(2); ok {
		t.Fatalf("frames behind the rebased window must be gone")
	}
	if h.Store(h.StartFrame()-1, protocol.InputFrame{}) {
		t.Fatalf("store behind the rebased window must be dropped")
	}
	if !h.Store(h.StartFrame(), protocol.InputFrame{}) {
		t.Fatalf("store at the rebased startFrame must succeed")
	}
}

func TestHistoryLastTracksNewestInput(t *testing.T) {
	h := NewInputHistory(nil)
	if _, ok := h.Last(); ok {
		t.Fatalf("empty history has no last input")
	}
	h.Store(3, protocol.InputFrame{Throttle: 30})
	h.Store(7, protocol.InputFrame{Throttle: 70})
	h.Store(5, protocol.InputFrame{Throttle: 50})

	last, ok := h.Last()
	if !ok || last.Frame != 7 || last.Throttle != 70 {
		t.Fatalf("last = %+v, want the frame-7 input", last)
	}
}

func TestHistoryResetClearsEverything(t *testing.T) {
	h := NewInputHistory(nil)
	h.Store(1, protocol.InputFrame{Throttle: 10})
	h.Rebase(60)
	h.Reset()

	if h.StartFrame() != 0 || h.Count() != 0 {
		t.Fatalf("reset left window at start=%d count=%d", h.StartFrame(), h.Count())
	}
	if _, ok := h.Last(); ok {
		t.Fatalf("reset must forget the last input")
	}
}

func TestHistoryNilReceiverIsSafe(t *testing.T) {
	var h *InputHistory
	if h.Store(0, protocol.InputFrame{}) {
		t.Fatalf("nil history must not accept stores")
	}
	if _, ok := h.Sample(0); ok {
		t.Fatalf("nil history must not return samples")
	}
	h.Rebase(100)
	h.Reset()
}
