// Command raced runs one racing peer end to end: track, physics,
// prediction/rollback session and transport. With no peer flags it runs
// both peers over an in-process loopback, which makes it a quick smoke
// test for the whole pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fbettag/why2025-badge-mode7-ble-racer/logging"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/logging/sinks"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/netcode"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/protocol"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/track"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/transport"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/transport/ws"
)

const (
	// EventStats is the periodic session status event.
	EventStats logging.EventType = "session.stats"
)

type options struct {
	host      bool
	listen    string
	join      string
	trackID   uint
	trackFile string
	tickRate  int
	netRate   int
	duration  time.Duration
	logJSON   string
}

func main() {
	var opts options
	flag.BoolVar(&opts.host, "host", false, "accept a peer connection")
	flag.StringVar(&opts.listen, "listen", ":8080", "listen address when hosting")
	flag.StringVar(&opts.join, "join", "", "websocket URL of the hosting peer")
	flag.UintVar(&opts.trackID, "track", 0, "built-in track id")
	flag.StringVar(&opts.trackFile, "track-file", "", "track definition file (overrides -track)")
	flag.IntVar(&opts.tickRate, "tick-rate", 60, "physics ticks per second")
	flag.IntVar(&opts.netRate, "net-rate", 20, "network sends per second")
	flag.DurationVar(&opts.duration, "duration", 0, "stop after this long (0 = run until interrupted)")
	flag.StringVar(&opts.logJSON, "log-json", "", "write NDJSON events to this file")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "raced: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	router, err := newRouter(opts)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		router.Close(ctx)
	}()

	def, err := resolveTrack(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	switch {
	case opts.join != "":
		return runJoin(ctx, opts, def, router)
	case opts.host:
		return runHost(ctx, opts, def, router)
	default:
		return runLoopback(ctx, opts, def, router)
	}
}

func newRouter(opts options) (*logging.Router, error) {
	cfg := logging.DefaultConfig()
	named := []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout, cfg.Console)},
	}
	if opts.logJSON != "" {
		file, err := os.Create(opts.logJSON)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		named = append(named, logging.NamedSink{
			Name: "json",
			Sink: sinks.NewJSON(file, cfg.JSON.FlushInterval),
		})
		cfg.EnabledSinks = append(cfg.EnabledSinks, "json")
	}
	return logging.NewRouter(nil, cfg, named)
}

func resolveTrack(opts options) (track.Definition, error) {
	if opts.trackFile != "" {
		return track.Load(opts.trackFile)
	}
	def, ok := track.ByID(uint8(opts.trackID))
	if !ok {
		return track.Definition{}, fmt.Errorf("unknown track id %d", opts.trackID)
	}
	return def, nil
}

func newSession(opts options, def track.Definition, tr transport.Transport, host bool, pub logging.Publisher) *netcode.Session {
	divisor := 1
	if opts.netRate > 0 && opts.tickRate > opts.netRate {
		divisor = opts.tickRate / opts.netRate
	}
	session := netcode.NewSession(netcode.Config{
		Host:        host,
		Transport:   tr,
		Publisher:   pub,
		SendDivisor: divisor,
	})
	def.Apply(session.World())
	session.World().StartRace()
	return session
}

func runJoin(ctx context.Context, opts options, def track.Definition, router *logging.Router) error {
	conn, err := ws.Dial(opts.join, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", opts.join, err)
	}
	defer conn.Close()

	session := newSession(opts, def, conn, false, router)
	conn.Start()
	drive(ctx, opts, router, session)
	return nil
}

func runHost(ctx context.Context, opts options, def track.Definition, router *logging.Router) error {
	accepted := make(chan *ws.Conn, 1)
	var once sync.Once

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		delivered := false
		once.Do(func() {
			accepted <- conn
			delivered = true
		})
		if !delivered {
			conn.Close()
		}
	})

	server := &http.Server{Addr: opts.listen, Handler: mux}
	go server.ListenAndServe()
	defer server.Shutdown(context.Background())

	var conn *ws.Conn
	select {
	case conn = <-accepted:
	case <-ctx.Done():
		return nil
	}
	defer conn.Close()

	session := newSession(opts, def, conn, true, router)

	cfg := protocol.ConfigFrame{
		ConfigType:    1,
		TrackID:       def.ID,
		LapCount:      def.TotalLaps,
		LatencyTarget: 100,
		UpdateRate:    uint16(opts.netRate),
	}
	conn.Start()
	if err := session.SendConfig(cfg); err != nil {
		return fmt.Errorf("send config: %w", err)
	}

	drive(ctx, opts, router, session)
	return nil
}

func runLoopback(ctx context.Context, opts options, def track.Definition, router *logging.Router) error {
	hostEnd, joinEnd := transport.Loopback()
	host := newSession(opts, def, hostEnd, true, router)
	join := newSession(opts, def, joinEnd, false, router)
	host.HandleConnection(true)
	join.HandleConnection(true)
	drive(ctx, opts, router, host, join)
	return nil
}

// drive ticks the sessions at the physics rate with a scripted input
// until the context ends, logging stats every few seconds.
func drive(ctx context.Context, opts options, router *logging.Router, sessions ...*netcode.Session) {
	tickRate := opts.tickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()
	statsTicker := time.NewTicker(5 * time.Second)
	defer statsTicker.Stop()

	frame := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-statsTicker.C:
			for _, s := range sessions {
				publishStats(router, s)
			}
		case <-ticker.C:
			throttle, steering := scriptedInput(frame)
			for i, s := range sessions {
				// Offset the second peer's script so the cars diverge.
				t, st := throttle, steering
				if i == 1 {
					t, st = scriptedInput(frame + 90)
				}
				s.Tick(t, 0, st, 0)
			}
			frame++
		}
	}
}

// scriptedInput is a simple deterministic driving pattern: full
// throttle with a slow steering sweep.
func scriptedInput(frame int) (throttle, steering float64) {
	throttle = 1.0
	phase := frame % 240
	switch {
	case phase < 120:
		steering = float64(phase)/120 - 0.5
	default:
		steering = 0.5 - float64(phase-120)/120
	}
	return throttle, steering
}

func publishStats(router *logging.Router, s *netcode.Session) {
	stats := s.Stats()
	router.Publish(context.Background(), logging.Event{
		Type:     EventStats,
		Frame:    stats.CurrentFrame,
		Actor:    logging.EntityRef{ID: "session", Kind: logging.EntityKindSession},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySystem,
		Payload:  stats,
		Extra:    map[string]any{"counters": s.Counters()},
	})
}
