// Package race publishes the typed logging events emitted by the race
// progression logic.
package race

import (
	"context"

	"github.com/fbettag/why2025-badge-mode7-ble-racer/logging"
)

const (
	// EventCheckpointPassed is emitted when a car crosses its next
	// expected checkpoint.
	EventCheckpointPassed logging.EventType = "race.checkpoint_passed"
	// EventLapCompleted is emitted when the checkpoint cursor wraps.
	EventLapCompleted logging.EventType = "race.lap_completed"
	// EventRaceFinished is emitted once per car when it completes the race.
	EventRaceFinished logging.EventType = "race.finished"
)

// CheckpointPayload identifies the crossed checkpoint.
type CheckpointPayload struct {
	Car        int   `json:"car"`
	Checkpoint uint8 `json:"checkpoint"`
	Lap        uint8 `json:"lap"`
}

// FinishPayload captures the finishing time.
type FinishPayload struct {
	Car        int    `json:"car"`
	TimeMillis uint32 `json:"timeMillis"`
}

// CheckpointPassed publishes a debug event for checkpoint progress.
func CheckpointPassed(ctx context.Context, pub logging.Publisher, frame uint32, actor logging.EntityRef, payload CheckpointPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCheckpointPassed,
		Frame:    frame,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryRace,
		Payload:  payload,
	})
}

// LapCompleted publishes an info event for a completed lap.
func LapCompleted(ctx context.Context, pub logging.Publisher, frame uint32, actor logging.EntityRef, payload CheckpointPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventLapCompleted,
		Frame:    frame,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryRace,
		Payload:  payload,
	})
}

// Finished publishes an info event when a car finishes the race.
func Finished(ctx context.Context, pub logging.Publisher, frame uint32, actor logging.EntityRef, payload FinishPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRaceFinished,
		Frame:    frame,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryRace,
		Payload:  payload,
	})
}
