package transport

import (
	"testing"

	"github.com/fbettag/why2025-badge-mode7-ble-racer/protocol"
)

func TestLoopbackDeliversFrames(t *testing.T) {
	a, b := Loopback()

	var gotKind protocol.PacketKind
	var gotPayload []byte
	b.SetHandler(func(kind protocol.PacketKind, payload []byte) {
		gotKind = kind
		gotPayload = payload
	})

	if err := a.Send(protocol.KindInput, []byte{1, 2, 3}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotKind != protocol.KindInput {
		t.Fatalf("kind = %v, want input", gotKind)
	}
	if len(gotPayload) != 3 || gotPayload[0] != 1 {
		t.Fatalf("payload = %v", gotPayload)
	}
}

func TestLoopbackCopiesPayload(t *testing.T) {
	a, b := Loopback()
	var got []byte
	b.SetHandler(func(_ protocol.PacketKind, payload []byte) { got = payload })

	original := []byte{9, 9}
	a.Send(protocol.KindState, original)
	original[0] = 0

	if got[0] != 9 {
		t.Fatalf("handler must receive its own copy of the payload")
	}
}

func TestLoopbackCloseNotifiesPeer(t *testing.T) {
	a, b := Loopback()
	notified := false
	b.SetConnectionHandler(func(connected bool) {
		if !connected {
			notified = true
		}
	})

	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !notified {
		t.Fatalf("peer must observe the disconnect")
	}
	if err := a.Send(protocol.KindInput, nil); err != ErrClosed {
		t.Fatalf("send after close = %v, want ErrClosed", err)
	}
	if err := b.Send(protocol.KindInput, nil); err != ErrClosed {
		t.Fatalf("peer send after close = %v, want ErrClosed", err)
	}
}

func TestLoopbackSendWithoutHandlerIsHarmless(t *testing.T) {
	a, _ := Loopback()
	if err := a.Send(protocol.KindConfig, []byte{1}); err != nil {
		t.Fatalf("send without a peer handler should succeed: %v", err)
	}
}
