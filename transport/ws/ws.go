// Package ws runs the transport over a websocket. Frames are binary
// messages of one kind byte followed by the packet payload.
package ws

import (
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fbettag/why2025-badge-mode7-ble-racer/protocol"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/transport"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Conn adapts a websocket connection to the Transport interface. Writes
// are serialized under a mutex with a deadline; reads run on a single
// pump goroutine started by Start.
type Conn struct {
	writeMu sync.Mutex
	conn    *websocket.Conn

	handlerMu   sync.Mutex
	handler     transport.Handler
	connHandler transport.ConnectionHandler

	logger   *log.Logger
	closed   atomic.Bool
	teardown sync.Once
}

// Dial connects to a hosting peer.
func Dial(url string, logger *log.Logger) (*Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return newConn(conn, logger), nil
}

// Upgrade accepts an incoming peer connection on an HTTP handler.
func Upgrade(w http.ResponseWriter, r *http.Request, logger *log.Logger) (*Conn, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return newConn(conn, logger), nil
}

func newConn(conn *websocket.Conn, logger *log.Logger) *Conn {
	if logger == nil {
		logger = log.Default()
	}
	return &Conn{conn: conn, logger: logger}
}

// Start reports the connection up and launches the read pump. Install
// handlers before calling it.
func (c *Conn) Start() {
	if c == nil {
		return
	}
	c.handlerMu.Lock()
	notify := c.connHandler
	c.handlerMu.Unlock()
	if notify != nil {
		notify(true)
	}
	go c.readPump()
}

// Send transmits one kind-tagged frame.
func (c *Conn) Send(kind protocol.PacketKind, payload []byte) error {
	if c == nil || c.closed.Load() {
		return transport.ErrClosed
	}
	frame := make([]byte, 1+len(payload))
	frame[0] = byte(kind)
	copy(frame[1:], payload)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		c.shutdown()
		return err
	}
	return nil
}

// SetHandler installs the inbound frame callback.
func (c *Conn) SetHandler(h transport.Handler) {
	if c == nil {
		return
	}
	c.handlerMu.Lock()
	c.handler = h
	c.handlerMu.Unlock()
}

// SetConnectionHandler installs the connectivity callback.
func (c *Conn) SetConnectionHandler(h transport.ConnectionHandler) {
	if c == nil {
		return
	}
	c.handlerMu.Lock()
	c.connHandler = h
	c.handlerMu.Unlock()
}

// Close tears the connection down and reports it to the handler.
func (c *Conn) Close() error {
	if c == nil {
		return nil
	}
	c.writeMu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	c.shutdown()
	return nil
}

func (c *Conn) readPump() {
	for {
		messageType, payload, err := c.conn.ReadMessage()
		if err != nil {
			if !c.closed.Load() {
				c.logger.Printf("ws: read: %v", err)
			}
			c.shutdown()
			return
		}
		if messageType != websocket.BinaryMessage || len(payload) < 1 {
			continue
		}
		c.handlerMu.Lock()
		handler := c.handler
		c.handlerMu.Unlock()
		if handler != nil {
			handler(protocol.PacketKind(payload[0]), payload[1:])
		}
	}
}

func (c *Conn) shutdown() {
	c.teardown.Do(func() {
		c.closed.Store(true)
		c.conn.Close()
		c.handlerMu.Lock()
		notify := c.connHandler
		c.handlerMu.Unlock()
		if notify != nil {
			notify(false)
		}
	})
}
