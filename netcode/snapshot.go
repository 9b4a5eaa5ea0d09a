package netcode

import "github.com/fbettag/why2025-badge-mode7-ble-racer/physics"

// SnapshotRing stores one world snapshot per frame so rollback can
// restore and replay. The world is a value type, so recording and
// restoring are plain struct copies. Single writer: the tick goroutine.
type SnapshotRing struct {
	worlds [HistoryCapacity]physics.World
	frames [HistoryCapacity]uint32
	valid  [HistoryCapacity]bool
}

// NewSnapshotRing constructs an empty ring.
func NewSnapshotRing() *SnapshotRing {
	return &SnapshotRing{}
}

// Record stores a copy of the world keyed by frame, overwriting
// whatever occupied the slot.
func (r *SnapshotRing) Record(frame uint32, world *physics.World) {
	if r == nil || world == nil {
		return
	}
	idx := frame % HistoryCapacity
	r.worlds[idx] = *world
	r.frames[idx] = frame
	r.valid[idx] = true
}

// Restore returns the snapshot recorded for exactly frame.
func (r *SnapshotRing) Restore(frame uint32) (physics.World, bool) {
	if r == nil {
		return physics.World{}, false
	}
	idx := frame % HistoryCapacity
	if !r.valid[idx] || r.frames[idx] != frame {
		return physics.World{}, false
	}
	return r.worlds[idx], true
}

// NearestAtOrBefore returns the newest snapshot whose frame is <= frame.
func (r *SnapshotRing) NearestAtOrBefore(frame uint32) (physics.World, uint32, bool) {
	if r == nil {
		return physics.World{}, 0, false
	}
	var (
		best      uint32
		bestIdx   = -1
		bestFound bool
	)
	for i := range r.valid {
		if !r.valid[i] || r.frames[i] > frame {
			continue
		}
		if !bestFound || r.frames[i] > best {
			best = r.frames[i]
			bestIdx = i
			bestFound = true
		}
	}
	if !bestFound {
		return physics.World{}, 0, false
	}
	return r.worlds[bestIdx], best, true
}

// Reset discards all snapshots.
func (r *SnapshotRing) Reset() {
	if r == nil {
		return
	}
	for i := range r.valid {
		r.valid[i] = false
	}
}
