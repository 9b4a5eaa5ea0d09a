package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fbettag/why2025-badge-mode7-ble-racer/protocol"
)

type received struct {
	kind    protocol.PacketKind
	payload []byte
}

// startPair serves one websocket endpoint and dials it, returning both
// transport ends wired with buffered receive channels.
func startPair(t *testing.T) (client, server *Conn, clientRx, serverRx chan received) {
	t.Helper()
	clientRx = make(chan received, 16)
	serverRx = make(chan received, 16)
	serverReady := make(chan *Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conn.SetHandler(func(kind protocol.PacketKind, payload []byte) {
			serverRx <- received{kind, append([]byte(nil), payload...)}
		})
		conn.Start()
		serverReady <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, err := Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	clientConn.SetHandler(func(kind protocol.PacketKind, payload []byte) {
		clientRx <- received{kind, append([]byte(nil), payload...)}
	})
	clientConn.Start()
	t.Cleanup(func() { clientConn.Close() })

	select {
	case server = <-serverReady:
	case <-time.After(2 * time.Second):
		t.Fatalf("server side never came up")
	}
	return clientConn, server, clientRx, serverRx
}

func TestFramesCrossTheSocketBothWays(t *testing.T) {
	client, server, clientRx, serverRx := startPair(t)

	if err := client.Send(protocol.KindInput, []byte{42}); err != nil {
		t.Fatalf("client send: %v", err)
	}
	select {
	case got := <-serverRx:
		if got.kind != protocol.KindInput || got.payload[0] != 42 {
			t.Fatalf("server received %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server never received the frame")
	}

	if err := server.Send(protocol.KindState, []byte{7, 8}); err != nil {
		t.Fatalf("server send: %v", err)
	}
	select {
	case got := <-clientRx:
		if got.kind != protocol.KindState || len(got.payload) != 2 {
			t.Fatalf("client received %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("client never received the frame")
	}
}

func TestCloseReportsDisconnectToPeer(t *testing.T) {
	disconnected := make(chan struct{})
	serverReady := make(chan *Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.SetConnectionHandler(func(connected bool) {
			if !connected {
				close(disconnected)
			}
		})
		conn.Start()
		serverReady <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, err := Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	client.Start()
	<-serverReady

	client.Close()
	select {
	case <-disconnected:
	case <-time.After(2 * time.Second):
		t.Fatalf("server never observed the disconnect")
	}

	if err := client.Send(protocol.KindInput, nil); err == nil {
		t.Fatalf("send after close must fail")
	}
}
