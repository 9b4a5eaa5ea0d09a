package netcode

import (
	"sync"

	"github.com/fbettag/why2025-badge-mode7-ble-racer/internal/telemetry"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/protocol"
)

const (
	intakeOccupancyMetricKey = "netcode_intake_occupancy"
	intakeOverflowMetricKey  = "netcode_intake_overflow_total"
)

// Packet is one raw inbound frame staged between the transport
// goroutine and the tick goroutine.
type Packet struct {
	Kind    protocol.PacketKind
	Payload []byte
}

// PacketBuffer stages inbound packets in a fixed-size ring. It is safe
// for concurrent producers and a single consumer; decoding happens only
// on the consumer side.
type PacketBuffer struct {
	mu      sync.Mutex
	data    []Packet
	head    int
	tail    int
	count   int
	metrics telemetry.Metrics
}

// NewPacketBuffer constructs a ring buffer with the provided capacity.
func NewPacketBuffer(capacity int, metrics telemetry.Metrics) *PacketBuffer {
	if capacity < 1 {
		capacity = 1
	}
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &PacketBuffer{
		data:    make([]Packet, capacity),
		metrics: metrics,
	}
}

// Capacity reports the maximum number of packets the buffer can hold.
func (b *PacketBuffer) Capacity() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Push stages a packet, returning false if the buffer is full.
func (b *PacketBuffer) Push(p Packet) bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count == len(b.data) {
		b.metrics.Add(intakeOverflowMetricKey, 1)
		return false
	}
	b.data[b.tail] = p
	b.tail = (b.tail + 1) % len(b.data)
	b.count++
	b.metrics.Store(intakeOccupancyMetricKey, uint64(b.count))
	return true
}

// Drain returns all staged packets in FIFO order and clears the buffer.
func (b *PacketBuffer) Drain() []Packet {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count == 0 {
		return nil
	}
	packets := make([]Packet, b.count)
	for i := 0; i < b.count; i++ {
		idx := (b.head + i) % len(b.data)
		packets[i] = b.data[idx]
	}
	b.head = 0
	b.tail = 0
	b.count = 0
	b.metrics.Store(intakeOccupancyMetricKey, 0)
	return packets
}

// Len reports the number of staged packets.
func (b *PacketBuffer) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
