// Package netcode implements the prediction and rollback layer: input
// and snapshot history rings, the concurrent packet intake buffer, and
// the Session controller that ties them to the physics world.
package netcode

import (
	"github.com/fbettag/why2025-badge-mode7-ble-racer/internal/telemetry"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/protocol"
)

// HistoryCapacity is the number of frames an input or snapshot ring can
// hold. At 60 Hz this is roughly one second of history.
const HistoryCapacity = 64

const (
	historyDropMetricKey   = "netcode_history_drops_total"
	historyRebaseMetricKey = "netcode_history_rebases_total"
)

// InputHistory is a frame-indexed ring of input frames covering the
// window [startFrame, startFrame+HistoryCapacity). It has a single
// writer, the tick goroutine, and is nil-receiver safe.
type InputHistory struct {
	entries    [HistoryCapacity]protocol.InputFrame
	valid      [HistoryCapacity]bool
	startFrame uint32
	count      int

	last    protocol.InputFrame
	hasLast bool

	metrics telemetry.Metrics
}

// NewInputHistory constructs a history starting at frame 0.
func NewInputHistory(metrics telemetry.Metrics) *InputHistory {
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &InputHistory{metrics: metrics}
}

// Store records an input at its frame. Frames outside the current
// window are silently dropped; the drop is only counted, never fatal.
func (h *InputHistory) Store(frame uint32, input protocol.InputFrame) bool {
	if h == nil {
		return false
	}
	if frame < h.startFrame || frame >= h.startFrame+HistoryCapacity {
		h.metrics.Add(historyDropMetricKey, 1)
		return false
	}
	idx := frame % HistoryCapacity
	h.entries[idx] = input
	h.entries[idx].Frame = frame
	h.valid[idx] = true
	if span := int(frame-h.startFrame) + 1; span > h.count {
		h.count = span
	}
	if !h.hasLast || frame >= h.last.Frame {
		h.last = h.entries[idx]
		h.hasLast = true
	}
	return true
}

// Sample returns the input stored for frame, if any.
func (h *InputHistory) Sample(frame uint32) (protocol.InputFrame, bool) {
	if h == nil {
		return protocol.InputFrame{}, false
	}
	if frame < h.startFrame || frame >= h.startFrame+HistoryCapacity {
		return protocol.InputFrame{}, false
	}
	idx := frame % HistoryCapacity
	if !h.valid[idx] || h.entries[idx].Frame != frame {
		return protocol.InputFrame{}, false
	}
	return h.entries[idx], true
}

// Last returns the most recent input ever stored.
func (h *InputHistory) Last() (protocol.InputFrame, bool) {
	if h == nil || !h.hasLast {
		return protocol.InputFrame{}, false
	}
	return h.last, true
}

// Rebase slides the window forward once the current frame has outrun
// the buffered history by more than half the capacity. The new window
// keeps a quarter capacity of headroom behind the current frame.
func (h *InputHistory) Rebase(current uint32) {
	if h == nil {
		return
	}
	if current <= h.startFrame+uint32(h.count)+HistoryCapacity/2 {
		return
	}
	newStart := uint32(0)
	if current > HistoryCapacity/4 {
		newStart = current - HistoryCapacity/4
	}
	for i := range h.valid {
		if !h.valid[i] {
			continue
		}
		if f := h.entries[i].Frame; f < newStart || f >= newStart+HistoryCapacity {
			h.valid[i] = false
		}
	}
	h.startFrame = newStart
	h.count = HistoryCapacity / 4
	h.metrics.Add(historyRebaseMetricKey, 1)
}

// StartFrame reports the lower bound of the accepted window.
func (h *InputHistory) StartFrame() uint32 {
	if h == nil {
		return 0
	}
	return h.startFrame
}

// Count reports the span of frames covered since startFrame.
func (h *InputHistory) Count() int {
	if h == nil {
		return 0
	}
	return h.count
}

// Reset clears all history back to frame 0.
func (h *InputHistory) Reset() {
	if h == nil {
		return
	}
	h.startFrame = 0
	h.count = 0
	h.hasLast = false
	h.last = protocol.InputFrame{}
	for i := range h.valid {
		h.valid[i] = false
	}
}
