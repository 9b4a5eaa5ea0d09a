// Package protocol implements the fixed-layout binary packet codec
// shared by both peers: input frames, authoritative game-state frames
// and the session config frame. Layouts are little-endian with no
// padding, each frame carrying its own trailing checksum.
package protocol

import (
	"encoding/binary"
	"errors"

	fix "github.com/fbettag/why2025-badge-mode7-ble-racer/fixmath"
)

// PacketKind discriminates frames inside the transport envelope.
type PacketKind uint8

const (
	KindInput  PacketKind = 1
	KindState  PacketKind = 2
	KindConfig PacketKind = 3
)

// String returns the kind's wire name for logs.
func (k PacketKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindState:
		return "state"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Button bitmask values carried in InputFrame.Buttons.
const (
	ButtonBoost     uint8 = 1 << 0
	ButtonHandbrake uint8 = 1 << 1
	ButtonHorn      uint8 = 1 << 2
	ButtonPause     uint8 = 1 << 3
)

// Game state values carried in GameStateFrame.GameState.
const (
	GameStateMenu uint8 = iota
	GameStateLobby
	GameStateCountdown
	GameStateRacing
	GameStateResults
	GameStateSettings
)

// MaxPlayers is the number of peers in a session.
const MaxPlayers = 2

// Frame sizes on the wire.
const (
	InputFrameSize     = 13
	GameStateFrameSize = 33
	ConfigFrameSize    = 12
)

var (
	// ErrShortPacket is returned when the payload is smaller than the
	// frame layout requires.
	ErrShortPacket = errors.New("protocol: short packet")
	// ErrChecksumMismatch is returned when the trailing checksum does
	// not cover the received bytes.
	ErrChecksumMismatch = errors.New("protocol: checksum mismatch")
	// ErrPlayerMismatch is returned when the player field is outside
	// the two-peer range.
	ErrPlayerMismatch = errors.New("protocol: player out of range")
)

// QuantizeUnit maps a [0,1] axis to the wire range [0,100].
func QuantizeUnit(v float64) int8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int8(v * 100)
}

// QuantizeSigned maps a [-1,1] axis to the wire range [-100,100].
func QuantizeSigned(v float64) int8 {
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}
	return int8(v * 100)
}

// DequantizeAxis restores a quantized axis to its float value.
func DequantizeAxis(v int8) float64 {
	return float64(v) / 100
}

// InputFrame carries one tick of quantized driver input.
type InputFrame struct {
	Player    uint8
	Throttle  int8
	Brake     int8
	Steering  int8
	Buttons   uint8
	Frame     uint32
	Timestamp uint16
}

// Pack serializes the frame, computing the trailing CRC-16.
func (f InputFrame) Pack() []byte {
	buf := make([]byte, InputFrameSize)
	buf[0] = f.Player
	buf[1] = byte(f.Throttle)
	buf[2] = byte(f.Brake)
	buf[3] = byte(f.Steering)
	buf[4] = f.Buttons
	binary.LittleEndian.PutUint32(buf[5:], f.Frame)
	binary.LittleEndian.PutUint16(buf[9:], f.Timestamp)
	binary.LittleEndian.PutUint16(buf[11:], CRC16(buf[:11]))
	return buf
}

// UnpackInputFrame validates length, checksum and player range before
// decoding. A failed unpack must never mutate caller state.
func UnpackInputFrame(data []byte) (InputFrame, error) {
	if len(data) < InputFrameSize {
		return InputFrame{}, ErrShortPacket
	}
	if binary.LittleEndian.Uint16(data[11:]) != CRC16(data[:11]) {
		return InputFrame{}, ErrChecksumMismatch
	}
	if data[0] >= MaxPlayers {
		return InputFrame{}, ErrPlayerMismatch
	}
	return InputFrame{
		Player:    data[0],
		Throttle:  int8(data[1]),
		Brake:     int8(data[2]),
		Steering:  int8(data[3]),
		Buttons:   data[4],
		Frame:     binary.LittleEndian.Uint32(data[5:]),
		Timestamp: binary.LittleEndian.Uint16(data[9:]),
	}, nil
}

// GameStateFrame carries the authoritative state of one car at a frame.
type GameStateFrame struct {
	GameState  uint8
	Player     uint8
	Frame      uint32
	PosX       fix.Fixed
	PosY       fix.Fixed
	VelX       fix.Fixed
	VelY       fix.Fixed
	Heading    fix.Fixed
	Checkpoint uint8
	Lap        uint8
	Finished   bool
	Timestamp  uint16
}

// Pack serializes the frame, computing the trailing CRC-16.
func (f GameStateFrame) Pack() []byte {
	buf := make([]byte, GameStateFrameSize)
	buf[0] = f.GameState
	buf[1] = f.Player
	binary.LittleEndian.PutUint32(buf[2:], f.Frame)
	binary.LittleEndian.PutUint32(buf[6:], uint32(f.PosX))
	binary.LittleEndian.PutUint32(buf[10:], uint32(f.PosY))
	binary.LittleEndian.PutUint32(buf[14:], uint32(f.VelX))
	binary.LittleEndian.PutUint32(buf[18:], uint32(f.VelY))
	binary.LittleEndian.PutUint32(buf[22:], uint32(f.Heading))
	buf[26] = f.Checkpoint
	buf[27] = f.Lap
	if f.Finished {
		buf[28] = 1
	}
	binary.LittleEndian.PutUint16(buf[29:], f.Timestamp)
	binary.LittleEndian.PutUint16(buf[31:], CRC16(buf[:31]))
	return buf
}

// UnpackGameStateFrame validates length, checksum and player range
// before decoding.
func UnpackGameStateFrame(data []byte) (GameStateFrame, error) {
	if len(data) < GameStateFrameSize {
		return GameStateFrame{}, ErrShortPacket
	}
	if binary.LittleEndian.Uint16(data[31:]) != CRC16(data[:31]) {
		return GameStateFrame{}, ErrChecksumMismatch
	}
	if data[1] >= MaxPlayers {
		return GameStateFrame{}, ErrPlayerMismatch
	}
	return GameStateFrame{
		GameState:  data[0],
		Player:     data[1],
		Frame:      binary.LittleEndian.Uint32(data[2:]),
		PosX:       fix.Fixed(binary.LittleEndian.Uint32(data[6:])),
		PosY:       fix.Fixed(binary.LittleEndian.Uint32(data[10:])),
		VelX:       fix.Fixed(binary.LittleEndian.Uint32(data[14:])),
		VelY:       fix.Fixed(binary.LittleEndian.Uint32(data[18:])),
		Heading:    fix.Fixed(binary.LittleEndian.Uint32(data[22:])),
		Checkpoint: data[26],
		Lap:        data[27],
		Finished:   data[28] != 0,
		Timestamp:  binary.LittleEndian.Uint16(data[29:]),
	}, nil
}

// ConfigFrame carries the session configuration negotiated once at
// connect time.
type ConfigFrame struct {
	ConfigType    uint8
	TrackID       uint8
	LapCount      uint8
	GameMode      uint8
	LatencyTarget uint16
	UpdateRate    uint16
}

// Pack serializes the frame, computing the trailing CRC-32.
func (f ConfigFrame) Pack() []byte {
	buf := make([]byte, ConfigFrameSize)
	buf[0] = f.ConfigType
	buf[1] = f.TrackID
	buf[2] = f.LapCount
	buf[3] = f.GameMode
	binary.LittleEndian.PutUint16(buf[4:], f.LatencyTarget)
	binary.LittleEndian.PutUint16(buf[6:], f.UpdateRate)
	binary.LittleEndian.PutUint32(buf[8:], CRC32(buf[:8]))
	return buf
}

// UnpackConfigFrame validates length and checksum before decoding.
func UnpackConfigFrame(data []byte) (ConfigFrame, error) {
	if len(data) < ConfigFrameSize {
		return ConfigFrame{}, ErrShortPacket
	}
	if binary.LittleEndian.Uint32(data[8:]) != CRC32(data[:8]) {
		return ConfigFrame{}, ErrChecksumMismatch
	}
	return ConfigFrame{
		ConfigType:    data[0],
		TrackID:       data[1],
		LapCount:      data[2],
		GameMode:      data[3],
		LatencyTarget: binary.LittleEndian.Uint16(data[4:]),
		UpdateRate:    binary.LittleEndian.Uint16(data[6:]),
	}, nil
}
