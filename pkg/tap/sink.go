package tap

import "github.com/sqlscope/bridge/pkg/types"

// Sink is a delivery backend for tap events. Implementations must be
// fire-and-forget: Notify never returns an error and must not panic back
// into the instrumented engine. Delivery failures are handled (or logged)
// internally.
type Sink interface {
	// Notify delivers one event. The payload is the relay's serialized
	// JSON text and may be truncated for oversized inputs.
	Notify(kind types.EventKind, payload string)

	// Close releases any resources held by the sink.
	Close() error
}

// SinkFunc adapts a plain function to the Sink interface. This is the
// drop-in equivalent of registering a single host callback.
type SinkFunc func(kind types.EventKind, payload string)

// Notify calls f.
func (f SinkFunc) Notify(kind types.EventKind, payload string) { f(kind, payload) }

// Close returns nil.
func (f SinkFunc) Close() error { return nil }

// NoopSink discards all events. Used when event forwarding is disabled.
type NoopSink struct{}

// Notify does nothing.
func (NoopSink) Notify(kind types.EventKind, payload string) {}

// Close returns nil.
func (NoopSink) Close() error { return nil }
