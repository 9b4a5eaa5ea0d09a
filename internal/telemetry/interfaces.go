// Package telemetry defines the narrow logging and metrics seams the
// core packages depend on, so counters can be swapped out in tests.
package telemetry

// Logger mirrors the subset of log.Logger the core uses.
type Logger interface {
	Printf(format string, args ...any)
}

// Metrics records named counters and gauges.
type Metrics interface {
	Add(name string, delta uint64)
	Store(name string, value uint64)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// NopLogger returns a logger that discards output.
func NopLogger() Logger { return nopLogger{} }

type nopMetrics struct{}

func (nopMetrics) Add(string, uint64)   {}
func (nopMetrics) Store(string, uint64) {}

// NopMetrics returns a metrics recorder that discards values.
func NopMetrics() Metrics { return nopMetrics{} }
