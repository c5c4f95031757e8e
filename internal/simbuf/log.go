// Package simbuf implements the two-phase staged buffers the simulator
// wires components together with (spec.md §4.5): a Push phase during Tick
// stages elements invisibly, and a Propagate phase after all Ticks either
// commits or stalls them, emitting log events and stall metadata.
package simbuf

// Logger receives tagged event lines during Propagate, one call per event.
// The simulator driver supplies an implementation that stamps every line
// with the current cycle and buffer index (spec.md §4.7).
type Logger interface {
	Log(tag, msg string)
}

// NopLogger discards every event; useful in tests that do not assert on
// the log.
type NopLogger struct{}

// Log implements Logger.
func (NopLogger) Log(string, string) {}

// stallWarningThreshold is the cycle count after which a buffer stalled in
// place emits a warning (spec.md §4.5).
const stallWarningThreshold = 500
