package netcode

import "sync/atomic"

// sessionCounters tracks the session's packet and prediction activity.
// All fields are atomics so Snapshot can be taken from any goroutine.
type sessionCounters struct {
	packetsSent      atomic.Uint64
	packetsReceived  atomic.Uint64
	dropsChecksum    atomic.Uint64
	dropsShort       atomic.Uint64
	dropsPlayer      atomic.Uint64
	dropsWindow      atomic.Uint64
	dropsOverflow    atomic.Uint64
	sendFailures     atomic.Uint64
	rollbacks        atomic.Uint64
	framesPredicted  atomic.Uint64
	framesSimulated  atomic.Uint64
	connectionResets atomic.Uint64
	configFramesSeen atomic.Uint64
	replayedFrames   atomic.Uint64
}

// CountersSnapshot is a point-in-time copy of the session counters.
type CountersSnapshot struct {
	PacketsSent      uint64 `json:"packetsSent"`
	PacketsReceived  uint64 `json:"packetsReceived"`
	DropsChecksum    uint64 `json:"dropsChecksum"`
	DropsShort       uint64 `json:"dropsShort"`
	DropsPlayer      uint64 `json:"dropsPlayer"`
	DropsWindow      uint64 `json:"dropsWindow"`
	DropsOverflow    uint64 `json:"dropsOverflow"`
	SendFailures     uint64 `json:"sendFailures"`
	Rollbacks        uint64 `json:"rollbacks"`
	FramesPredicted  uint64 `json:"framesPredicted"`
	FramesSimulated  uint64 `json:"framesSimulated"`
	ConnectionResets uint64 `json:"connectionResets"`
	ConfigFramesSeen uint64 `json:"configFramesSeen"`
	ReplayedFrames   uint64 `json:"replayedFrames"`
}

func (c *sessionCounters) Snapshot() CountersSnapshot {
	return CountersSnapshot{
		PacketsSent:      c.packetsSent.Load(),
		PacketsReceived:  c.packetsReceived.Load(),
		DropsChecksum:    c.dropsChecksum.Load(),
		DropsShort:       c.dropsShort.Load(),
		DropsPlayer:      c.dropsPlayer.Load(),
		DropsWindow:      c.dropsWindow.Load(),
		DropsOverflow:    c.dropsOverflow.Load(),
		SendFailures:     c.sendFailures.Load(),
		Rollbacks:        c.rollbacks.Load(),
		FramesPredicted:  c.framesPredicted.Load(),
		FramesSimulated:  c.framesSimulated.Load(),
		ConnectionResets: c.connectionResets.Load(),
		ConfigFramesSeen: c.configFramesSeen.Load(),
		ReplayedFrames:   c.replayedFrames.Load(),
	}
}
