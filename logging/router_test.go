package logging_test

import (
	"context"
	"testing"
	"time"

	"github.com/fbettag/why2025-badge-mode7-ble-racer/logging"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/logging/sinks"
)

func newMemoryRouter(t *testing.T, cfg logging.Config) (*logging.Router, *sinks.MemorySink) {
	t.Helper()
	memory := sinks.NewMemorySink()
	router, err := logging.NewRouter(nil, cfg, []logging.NamedSink{
		{Name: "memory", Sink: memory},
	})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	return router, memory
}

func closeRouter(t *testing.T, router *logging.Router) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("close router: %v", err)
	}
}

func TestRouterDeliversEventsToSink(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityDebug
	router, memory := newMemoryRouter(t, cfg)

	router.Publish(context.Background(), logging.Event{
		Type:     "race.checkpoint_passed",
		Frame:    12,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryRace,
		Actor:    logging.EntityRef{ID: "car-0", Kind: logging.EntityKindCar},
	})
	closeRouter(t, router)

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("sink received %d events, want 1", len(events))
	}
	got := events[0]
	if got.Type != "race.checkpoint_passed" || got.Frame != 12 {
		t.Fatalf("delivered event %+v", got)
	}
	if got.Time.IsZero() {
		t.Fatalf("router must stamp a time on delivery")
	}
}

func TestRouterFiltersBelowMinimumSeverity(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityWarn
	router, memory := newMemoryRouter(t, cfg)

	router.Publish(context.Background(), logging.Event{Type: "a", Severity: logging.SeverityDebug})
	router.Publish(context.Background(), logging.Event{Type: "b", Severity: logging.SeverityInfo})
	router.Publish(context.Background(), logging.Event{Type: "c", Severity: logging.SeverityError})
	closeRouter(t, router)

	events := memory.Events()
	if len(events) != 1 || events[0].Type != "c" {
		t.Fatalf("severity filter passed %+v", events)
	}
}

func TestRouterIgnoresUntypedEvents(t *testing.T) {
	router, memory := newMemoryRouter(t, logging.DefaultConfig())
	router.Publish(context.Background(), logging.Event{Severity: logging.SeverityError})
	closeRouter(t, router)
	if got := len(memory.Events()); got != 0 {
		t.Fatalf("untyped event was delivered %d times", got)
	}
}

func TestRouterAttachesStaticFields(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityDebug
	cfg.Fields = map[string]any{"peer": "host"}
	router, memory := newMemoryRouter(t, cfg)

	router.Publish(context.Background(), logging.Event{
		Type:     "netcode.rollback",
		Severity: logging.SeverityInfo,
	})
	closeRouter(t, router)

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("sink received %d events, want 1", len(events))
	}
	if got := events[0].Extra["peer"]; got != "host" {
		t.Fatalf("static field missing, extra = %+v", events[0].Extra)
	}
}

func TestWithFieldsDoesNotOverrideEventFields(t *testing.T) {
	var got logging.Event
	pub := logging.WithFields(logging.PublisherFunc(func(_ context.Context, event logging.Event) {
		got = event
	}), map[string]any{"peer": "host"})

	pub.Publish(context.Background(), logging.Event{
		Type:  "x",
		Extra: map[string]any{"peer": "join"},
	})
	if got.Extra["peer"] != "join" {
		t.Fatalf("event-level field must win, got %+v", got.Extra)
	}
}

func TestRouterStatsCountDeliveries(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityDebug
	router, _ := newMemoryRouter(t, cfg)

	for i := 0; i < 5; i++ {
		router.Publish(context.Background(), logging.Event{Type: "tick", Severity: logging.SeverityInfo})
	}
	closeRouter(t, router)

	stats := router.Stats()
	if stats.EventsTotal != 5 {
		t.Fatalf("events total = %d, want 5", stats.EventsTotal)
	}
}
