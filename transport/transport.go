// Package transport abstracts the byte pipe between the two peers. The
// session layer only ever sees kind-tagged payloads; framing, dialing
// and reconnection live behind this interface.
package transport

import (
	"errors"
	"sync"

	"github.com/fbettag/why2025-badge-mode7-ble-racer/protocol"
)

// Handler receives one inbound frame. Implementations are invoked from
// the transport's own goroutine and must not block; the netcode layer
// satisfies this by only enqueueing.
type Handler func(kind protocol.PacketKind, payload []byte)

// ConnectionHandler receives connectivity transitions.
type ConnectionHandler func(connected bool)

// ErrClosed is returned by Send after the transport has been closed.
var ErrClosed = errors.New("transport: closed")

// Transport is a bidirectional kind-tagged frame pipe.
type Transport interface {
	// Send transmits one frame. The payload is not retained.
	Send(kind protocol.PacketKind, payload []byte) error
	// SetHandler installs the inbound frame callback.
	SetHandler(h Handler)
	// SetConnectionHandler installs the connectivity callback.
	SetConnectionHandler(h ConnectionHandler)
	// Close tears the pipe down; the peer observes a disconnect.
	Close() error
}

// loopbackEnd is one side of an in-process transport pair.
type loopbackEnd struct {
	mu        sync.Mutex
	peer      *loopbackEnd
	handler   Handler
	connected ConnectionHandler
	closed    bool
}

// Loopback returns two connected in-process transports. Delivery is
// synchronous on the sender's goroutine, which keeps tests and the demo
// peer deterministic.
func Loopback() (Transport, Transport) {
	a := &loopbackEnd{}
	b := &loopbackEnd{}
	a.peer = b
	b.peer = a
	return a, b
}

func (e *loopbackEnd) Send(kind protocol.PacketKind, payload []byte) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	peer := e.peer
	e.mu.Unlock()

	peer.mu.Lock()
	handler := peer.handler
	closed := peer.closed
	peer.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if handler != nil {
		buf := append([]byte(nil), payload...)
		handler(kind, buf)
	}
	return nil
}

func (e *loopbackEnd) SetHandler(h Handler) {
	e.mu.Lock()
	e.handler = h
	e.mu.Unlock()
}

func (e *loopbackEnd) SetConnectionHandler(h ConnectionHandler) {
	e.mu.Lock()
	e.connected = h
	e.mu.Unlock()
}

func (e *loopbackEnd) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	peer := e.peer
	e.mu.Unlock()

	peer.mu.Lock()
	peerClosed := peer.closed
	notify := peer.connected
	peer.closed = true
	peer.mu.Unlock()
	if !peerClosed && notify != nil {
		notify(false)
	}
	return nil
}
