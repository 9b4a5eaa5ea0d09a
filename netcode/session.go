package netcode

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	fix "github.com/fbettag/why2025-badge-mode7-ble-racer/fixmath"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/internal/telemetry"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/logging"
	nclog "github.com/fbettag/why2025-badge-mode7-ble-racer/logging/netcode"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/physics"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/protocol"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/transport"
)

// DefaultTickInterval is one 60 Hz tick in 16.16 seconds.
const DefaultTickInterval = fix.Fixed(1092)

const (
	latencyWindowSize = 100
	intakeCapacity    = 256
)

// DefaultRollbackThreshold is the position divergence, in world units,
// beyond which the session rolls back and replays.
var DefaultRollbackThreshold = fix.FromInt(5)

// headingTolerance is the heading divergence that forces a rollback
// even when positions agree.
var headingTolerance = fix.FromFloat(0.1)

// Config carries the session wiring. Zero values fall back to defaults.
type Config struct {
	Host              bool
	Transport         transport.Transport
	Publisher         logging.Publisher
	Metrics           telemetry.Metrics
	TickInterval      fix.Fixed
	RollbackThreshold fix.Fixed
	// SendDivisor emits frames every Nth tick (1 = every tick). The
	// gaps are what remote-input prediction exists to cover.
	SendDivisor int
	Now         func() time.Time
}

// Stats is a point-in-time view of the session for status displays.
type Stats struct {
	AvgLatencyMillis  float64
	JitterMillis      float64
	CurrentFrame      uint32
	LastReceivedFrame uint32
	IsHost            bool
	IsConnected       bool
}

// Session drives one peer of the two-player netcode loop: it owns the
// world, the input histories and the snapshot ring, predicts the remote
// car between packets, and rolls back when authoritative state proves
// the prediction wrong.
//
// All simulation state has a single writer, the goroutine calling Tick.
// HandlePacket, HandleConnection, Stats and Counters are safe from any
// goroutine; inbound work crosses over through the intake ring only.
type Session struct {
	isHost       bool
	localPlayer  uint8
	remotePlayer uint8

	world        *physics.World
	localInputs  *InputHistory
	remoteInputs *InputHistory
	snapshots    *SnapshotRing
	intake       *PacketBuffer

	currentFrame atomic.Uint32
	lastReceived atomic.Uint32
	connected    atomic.Bool
	resetPending atomic.Bool

	dt          fix.Fixed
	threshold   fix.Fixed
	sendDivisor uint32

	latencyMu      sync.Mutex
	latencySamples []float64

	cfgMu      sync.Mutex
	lastConfig protocol.ConfigFrame
	hasConfig  bool

	transport transport.Transport
	publisher logging.Publisher
	counters  sessionCounters
	now       func() time.Time
	actor     logging.EntityRef
}

// NewSession constructs a session and wires it to the transport. The
// host drives car 0, the joining peer car 1.
func NewSession(cfg Config) *Session {
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	dt := cfg.TickInterval
	if dt <= 0 {
		dt = DefaultTickInterval
	}
	threshold := cfg.RollbackThreshold
	if threshold <= 0 {
		threshold = DefaultRollbackThreshold
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	sendDivisor := uint32(cfg.SendDivisor)
	if sendDivisor == 0 {
		sendDivisor = 1
	}

	s := &Session{
		isHost:       cfg.Host,
		localPlayer:  1,
		remotePlayer: 0,
		world:        physics.NewWorld(publisher),
		localInputs:  NewInputHistory(metrics),
		remoteInputs: NewInputHistory(metrics),
		snapshots:    NewSnapshotRing(),
		intake:       NewPacketBuffer(intakeCapacity, metrics),
		dt:           dt,
		threshold:    threshold,
		sendDivisor:  sendDivisor,
		transport:    cfg.Transport,
		publisher:    publisher,
		now:          now,
		actor:        logging.EntityRef{ID: "session", Kind: logging.EntityKindSession},
	}
	if cfg.Host {
		s.localPlayer, s.remotePlayer = 0, 1
	}
	s.world.ResetRace()
	s.snapshots.Record(0, s.world)

	if s.transport != nil {
		s.transport.SetHandler(s.HandlePacket)
		s.transport.SetConnectionHandler(s.HandleConnection)
	}
	return s
}

// World exposes the simulation state. Tick-goroutine use only.
func (s *Session) World() *physics.World {
	if s == nil {
		return nil
	}
	return s.world
}

// LocalPlayer reports the car index this peer drives.
func (s *Session) LocalPlayer() int {
	if s == nil {
		return 0
	}
	return int(s.localPlayer)
}

// Tick runs one frame: record local input, drain inbound packets, feed
// both cars, step the world, snapshot, and emit this peer's frames.
func (s *Session) Tick(throttle, brake, steering float64, buttons uint8) {
	if s == nil {
		return
	}
	frame := s.currentFrame.Load()
	local := protocol.InputFrame{
		Player:    s.localPlayer,
		Throttle:  protocol.QuantizeUnit(throttle),
		Brake:     protocol.QuantizeUnit(brake),
		Steering:  protocol.QuantizeSigned(steering),
		Buttons:   buttons,
		Frame:     frame,
		Timestamp: s.timestamp(),
	}
	s.localInputs.Store(frame, local)

	s.drainIntake()

	remote, ok := s.remoteInputs.Sample(frame)
	if !ok {
		remote = s.PredictRemoteInput(frame)
	}
	s.applyCarInput(int(s.localPlayer), local)
	s.applyCarInput(int(s.remotePlayer), remote)
	s.world.Update(s.dt)
	s.counters.framesSimulated.Add(1)

	s.AdvanceFrame()
	s.sendFrames(local)
}

// AdvanceFrame increments the frame counter, rebases both input
// windows and records the post-tick snapshot.
func (s *Session) AdvanceFrame() {
	if s == nil {
		return
	}
	frame := s.currentFrame.Add(1)
	s.localInputs.Rebase(frame)
	s.remoteInputs.Rebase(frame)
	s.snapshots.Record(frame, s.world)
}

// PredictRemoteInput guesses the remote input for a frame with no
// received packet: neutral before any input is known or for frames
// behind the window, otherwise the last known input re-stamped.
func (s *Session) PredictRemoteInput(frame uint32) protocol.InputFrame {
	if s == nil {
		return protocol.InputFrame{}
	}
	if sample, ok := s.remoteInputs.Sample(frame); ok {
		return sample
	}
	last, ok := s.remoteInputs.Last()
	if !ok || frame < s.remoteInputs.StartFrame() {
		return protocol.InputFrame{Player: s.remotePlayer, Frame: frame}
	}
	s.counters.framesPredicted.Add(1)
	last.Frame = frame
	return last
}

// ShouldRollback reports whether the predicted car has diverged from
// the authoritative state by more than threshold world units of
// position or the fixed heading tolerance.
func ShouldRollback(predicted physics.Car, actual protocol.GameStateFrame, threshold fix.Fixed) bool {
	dx := predicted.Position.X - actual.PosX
	dy := predicted.Position.Y - actual.PosY
	// Component check first: it is already conclusive and keeps the
	// squared terms inside int32 for gross divergence.
	if fix.Abs(dx) > threshold || fix.Abs(dy) > threshold {
		return true
	}
	delta := fix.Vec2{X: dx, Y: dy}
	if delta.Length() > threshold {
		return true
	}
	return fix.Abs(predicted.Heading-actual.Heading) > headingTolerance
}

// HandlePacket enqueues one inbound frame. Safe from any goroutine;
// decoding and state changes happen on the tick goroutine.
func (s *Session) HandlePacket(kind protocol.PacketKind, payload []byte) {
	if s == nil {
		return
	}
	buf := append([]byte(nil), payload...)
	if !s.intake.Push(Packet{Kind: kind, Payload: buf}) {
		s.counters.dropsOverflow.Add(1)
		nclog.PacketDropped(context.Background(), s.publisher, s.currentFrame.Load(), s.actor,
			nclog.DropPayload{Kind: kind.String(), Reason: "intake overflow", Size: len(payload)})
	}
}

// HandleConnection records connectivity transitions. A disconnect
// schedules a full session reset, applied on the next tick.
func (s *Session) HandleConnection(connected bool) {
	if s == nil {
		return
	}
	if s.connected.Swap(connected) == connected {
		return
	}
	nclog.Connection(context.Background(), s.publisher, s.currentFrame.Load(), s.actor,
		nclog.ConnectionPayload{Connected: connected})
	if !connected {
		s.resetPending.Store(true)
	}
}

// SendConfig transmits the session configuration to the peer.
func (s *Session) SendConfig(cfg protocol.ConfigFrame) error {
	if s == nil || s.transport == nil {
		return transport.ErrClosed
	}
	if err := s.transport.Send(protocol.KindConfig, cfg.Pack()); err != nil {
		s.counters.sendFailures.Add(1)
		return err
	}
	s.counters.packetsSent.Add(1)
	return nil
}

// RemoteConfig returns the last config frame received from the peer.
func (s *Session) RemoteConfig() (protocol.ConfigFrame, bool) {
	if s == nil {
		return protocol.ConfigFrame{}, false
	}
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	return s.lastConfig, s.hasConfig
}

// Stats returns the session's connectivity view. Safe from any goroutine.
func (s *Session) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	avg, jitter := s.latencyStats()
	return Stats{
		AvgLatencyMillis:  avg,
		JitterMillis:      jitter,
		CurrentFrame:      s.currentFrame.Load(),
		LastReceivedFrame: s.lastReceived.Load(),
		IsHost:            s.isHost,
		IsConnected:       s.connected.Load(),
	}
}

// Counters returns the telemetry counters. Safe from any goroutine.
func (s *Session) Counters() CountersSnapshot {
	if s == nil {
		return CountersSnapshot{}
	}
	return s.counters.Snapshot()
}

func (s *Session) drainIntake() {
	if s.resetPending.Swap(false) {
		s.resetState()
	}
	for _, p := range s.intake.Drain() {
		s.processPacket(p)
	}
}

func (s *Session) resetState() {
	s.currentFrame.Store(0)
	s.lastReceived.Store(0)
	s.localInputs.Reset()
	s.remoteInputs.Reset()
	s.snapshots.Reset()
	s.latencyMu.Lock()
	s.latencySamples = s.latencySamples[:0]
	s.latencyMu.Unlock()
	s.world.ResetRace()
	s.snapshots.Record(0, s.world)
	s.counters.connectionResets.Add(1)
}

func (s *Session) processPacket(p Packet) {
	switch p.Kind {
	case protocol.KindInput:
		f, err := protocol.UnpackInputFrame(p.Payload)
		if err != nil {
			s.dropPacket(p, err)
			return
		}
		s.counters.packetsReceived.Add(1)
		if f.Player != s.remotePlayer {
			s.counters.dropsPlayer.Add(1)
			nclog.PacketDropped(context.Background(), s.publisher, s.currentFrame.Load(), s.actor,
				nclog.DropPayload{Kind: p.Kind.String(), Reason: "unexpected player", Size: len(p.Payload)})
			return
		}
		s.recordLatency(f.Timestamp)
		s.observeFrame(f.Frame)
		if !s.remoteInputs.Store(f.Frame, f) {
			s.counters.dropsWindow.Add(1)
			nclog.BufferMiss(context.Background(), s.publisher, s.currentFrame.Load(), s.actor,
				nclog.BufferMissPayload{
					Frame:      f.Frame,
					StartFrame: s.remoteInputs.StartFrame(),
					Capacity:   HistoryCapacity,
					Side:       "remote",
				})
		}

	case protocol.KindState:
		f, err := protocol.UnpackGameStateFrame(p.Payload)
		if err != nil {
			s.dropPacket(p, err)
			return
		}
		s.counters.packetsReceived.Add(1)
		if f.Player != s.remotePlayer {
			s.counters.dropsPlayer.Add(1)
			nclog.PacketDropped(context.Background(), s.publisher, s.currentFrame.Load(), s.actor,
				nclog.DropPayload{Kind: p.Kind.String(), Reason: "unexpected player", Size: len(p.Payload)})
			return
		}
		s.recordLatency(f.Timestamp)
		s.observeFrame(f.Frame)
		s.reconcile(f)

	case protocol.KindConfig:
		f, err := protocol.UnpackConfigFrame(p.Payload)
		if err != nil {
			s.dropPacket(p, err)
			return
		}
		s.counters.packetsReceived.Add(1)
		s.counters.configFramesSeen.Add(1)
		s.cfgMu.Lock()
		s.lastConfig = f
		s.hasConfig = true
		s.cfgMu.Unlock()

	default:
		s.dropPacket(p, errors.New("unknown packet kind"))
	}
}

func (s *Session) dropPacket(p Packet, err error) {
	switch {
	case errors.Is(err, protocol.ErrChecksumMismatch):
		s.counters.dropsChecksum.Add(1)
	case errors.Is(err, protocol.ErrShortPacket):
		s.counters.dropsShort.Add(1)
	case errors.Is(err, protocol.ErrPlayerMismatch):
		s.counters.dropsPlayer.Add(1)
	}
	nclog.PacketDropped(context.Background(), s.publisher, s.currentFrame.Load(), s.actor,
		nclog.DropPayload{Kind: p.Kind.String(), Reason: err.Error(), Size: len(p.Payload)})
}

// reconcile checks an authoritative remote state against the local
// prediction for that frame and rolls back on divergence.
func (s *Session) reconcile(f protocol.GameStateFrame) {
	current := s.currentFrame.Load()
	if f.Frame >= current {
		// The peer is ahead of us; adopt its state directly.
		s.applyRemoteCar(f)
		return
	}
	snap, ok := s.snapshots.Restore(f.Frame)
	if !ok {
		s.applyRemoteCar(f)
		return
	}
	predicted := snap.Cars[s.remotePlayer]
	if !ShouldRollback(predicted, f, s.threshold) {
		return
	}
	s.rollback(f, predicted, current)
}

// rollback restores the snapshot at the authoritative frame, overwrites
// the remote car, and replays forward to the current frame using stored
// local inputs and confirmed or re-predicted remote inputs.
func (s *Session) rollback(f protocol.GameStateFrame, predicted physics.Car, current uint32) {
	restored, restoredFrame, ok := s.snapshots.NearestAtOrBefore(f.Frame)
	if !ok {
		s.applyRemoteCar(f)
		return
	}
	*s.world = restored
	s.world.SetPublisher(s.publisher)
	s.applyRemoteCar(f)
	s.snapshots.Record(restoredFrame, s.world)

	replayed := 0
	for frame := restoredFrame; frame < current; frame++ {
		localInput, ok := s.localInputs.Sample(frame)
		if !ok {
			localInput = protocol.InputFrame{Player: s.localPlayer, Frame: frame}
		}
		remoteInput, ok := s.remoteInputs.Sample(frame)
		if !ok {
			remoteInput = s.PredictRemoteInput(frame)
		}
		s.applyCarInput(int(s.localPlayer), localInput)
		s.applyCarInput(int(s.remotePlayer), remoteInput)
		s.world.Update(s.dt)
		s.snapshots.Record(frame+1, s.world)
		replayed++
	}

	s.counters.rollbacks.Add(1)
	s.counters.replayedFrames.Add(uint64(replayed))
	dx := predicted.Position.X - f.PosX
	dy := predicted.Position.Y - f.PosY
	nclog.Rollback(context.Background(), s.publisher, current, s.actor, nclog.RollbackPayload{
		AuthoritativeFrame: f.Frame,
		RestoredFrame:      restoredFrame,
		ReplayedFrames:     replayed,
		PositionError:      math.Hypot(fix.ToFloat(dx), fix.ToFloat(dy)),
		HeadingError:       fix.ToFloat(fix.Abs(predicted.Heading - f.Heading)),
	})
}

// applyRemoteCar overwrites the remote car and its race bookkeeping
// with authoritative values.
func (s *Session) applyRemoteCar(f protocol.GameStateFrame) {
	car := &s.world.Cars[s.remotePlayer]
	car.Position = fix.Vec2{X: f.PosX, Y: f.PosY}
	car.Velocity = fix.Vec2{X: f.VelX, Y: f.VelY}
	car.Heading = f.Heading
	car.Speed = car.Velocity.Length()
	s.world.CurrentCheckpoint[s.remotePlayer] = f.Checkpoint
	s.world.LapCount[s.remotePlayer] = f.Lap
	s.world.RaceFinished[s.remotePlayer] = f.Finished
}

func (s *Session) applyCarInput(car int, in protocol.InputFrame) {
	s.world.HandleInput(car,
		protocol.DequantizeAxis(in.Throttle),
		protocol.DequantizeAxis(in.Brake),
		protocol.DequantizeAxis(in.Steering),
		s.dt)
}

func (s *Session) sendFrames(local protocol.InputFrame) {
	if s.transport == nil || !s.connected.Load() {
		return
	}
	if s.currentFrame.Load()%s.sendDivisor != 0 {
		return
	}
	s.sendPacket(protocol.KindInput, local.Pack())
	s.sendPacket(protocol.KindState, s.localStateFrame().Pack())
}

func (s *Session) sendPacket(kind protocol.PacketKind, payload []byte) {
	if err := s.transport.Send(kind, payload); err != nil {
		s.counters.sendFailures.Add(1)
		return
	}
	s.counters.packetsSent.Add(1)
}

// localStateFrame captures this peer's authoritative car state after
// the tick it just ran.
func (s *Session) localStateFrame() protocol.GameStateFrame {
	car := &s.world.Cars[s.localPlayer]
	return protocol.GameStateFrame{
		GameState:  protocol.GameStateRacing,
		Player:     s.localPlayer,
		Frame:      s.currentFrame.Load(),
		PosX:       car.Position.X,
		PosY:       car.Position.Y,
		VelX:       car.Velocity.X,
		VelY:       car.Velocity.Y,
		Heading:    car.Heading,
		Checkpoint: s.world.CurrentCheckpoint[s.localPlayer],
		Lap:        s.world.LapCount[s.localPlayer],
		Finished:   s.world.RaceFinished[s.localPlayer],
		Timestamp:  s.timestamp(),
	}
}

func (s *Session) observeFrame(frame uint32) {
	for {
		seen := s.lastReceived.Load()
		if frame <= seen {
			return
		}
		if s.lastReceived.CompareAndSwap(seen, frame) {
			return
		}
	}
}

func (s *Session) recordLatency(sent uint16) {
	delta := s.timestamp() - sent
	if delta > 32768 {
		// Wrapped or skewed sample; discard rather than poison the window.
		return
	}
	s.latencyMu.Lock()
	s.latencySamples = append(s.latencySamples, float64(delta))
	if len(s.latencySamples) > latencyWindowSize {
		s.latencySamples = s.latencySamples[1:]
	}
	s.latencyMu.Unlock()
}

// latencyStats computes the moving average and the mean absolute
// deviation over the latency window.
func (s *Session) latencyStats() (avg, jitter float64) {
	s.latencyMu.Lock()
	defer s.latencyMu.Unlock()
	n := len(s.latencySamples)
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range s.latencySamples {
		sum += v
	}
	avg = sum / float64(n)
	var dev float64
	for _, v := range s.latencySamples {
		dev += math.Abs(v - avg)
	}
	return avg, dev / float64(n)
}

func (s *Session) timestamp() uint16 {
	return uint16(s.now().UnixMilli())
}
