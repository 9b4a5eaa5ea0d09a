// Package netcode publishes the typed logging events emitted by the
// prediction and packet pipeline.
package netcode

import (
	"context"

	"github.com/fbettag/why2025-badge-mode7-ble-racer/logging"
)

const (
	// EventPacketDropped is emitted when an inbound packet is rejected
	// before it can mutate any state.
	EventPacketDropped logging.EventType = "netcode.packet_dropped"
	// EventBufferMiss is emitted when an input lands outside the ring
	// buffer window and is discarded.
	EventBufferMiss logging.EventType = "netcode.buffer_miss"
	// EventRollback is emitted when prediction error exceeds threshold
	// and the session replays from a snapshot.
	EventRollback logging.EventType = "netcode.rollback"
	// EventConnection is emitted on transport connect and disconnect.
	EventConnection logging.EventType = "netcode.connection"
)

// DropPayload describes a rejected packet.
type DropPayload struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
	Size   int    `json:"size"`
}

// BufferMissPayload describes an input discarded outside the window.
type BufferMissPayload struct {
	Frame      uint32 `json:"frame"`
	StartFrame uint32 `json:"startFrame"`
	Capacity   int    `json:"capacity"`
	Side       string `json:"side"`
}

// RollbackPayload describes a triggered rollback replay.
type RollbackPayload struct {
	AuthoritativeFrame uint32  `json:"authoritativeFrame"`
	RestoredFrame      uint32  `json:"restoredFrame"`
	ReplayedFrames     int     `json:"replayedFrames"`
	PositionError      float64 `json:"positionError"`
	HeadingError       float64 `json:"headingError"`
}

// ConnectionPayload describes a connectivity transition.
type ConnectionPayload struct {
	Connected bool `json:"connected"`
}

// PacketDropped publishes a warning for a rejected inbound packet.
func PacketDropped(ctx context.Context, pub logging.Publisher, frame uint32, actor logging.EntityRef, payload DropPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPacketDropped,
		Frame:    frame,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetcode,
		Payload:  payload,
	})
}

// BufferMiss publishes a debug event for an out-of-window input store.
func BufferMiss(ctx context.Context, pub logging.Publisher, frame uint32, actor logging.EntityRef, payload BufferMissPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBufferMiss,
		Frame:    frame,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryNetcode,
		Payload:  payload,
	})
}

// Rollback publishes an info event when a replay corrects local state.
func Rollback(ctx context.Context, pub logging.Publisher, frame uint32, actor logging.EntityRef, payload RollbackPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRollback,
		Frame:    frame,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNetcode,
		Payload:  payload,
	})
}

// Connection publishes connectivity transitions.
func Connection(ctx context.Context, pub logging.Publisher, frame uint32, actor logging.EntityRef, payload ConnectionPayload) {
	if pub == nil {
		return
	}
	severity := logging.SeverityInfo
	if !payload.Connected {
		severity = logging.SeverityWarn
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventConnection,
		Frame:    frame,
		Actor:    actor,
		Severity: severity,
		Category: logging.CategoryNetcode,
		Payload:  payload,
	})
}
