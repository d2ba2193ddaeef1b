package tap

// defaultRelay backs the package-level API for engines that embed the bridge
// without managing a Relay instance themselves. It starts with no sink, so
// every hook is a no-op until RegisterSink is called.
var defaultRelay = NewRelay(nil)

// Default returns the process-wide relay.
func Default() *Relay {
	return defaultRelay
}

// RegisterSink sets the sink of the process-wide relay. Call once during
// host startup, before the engine begins emitting.
func RegisterSink(sink Sink) {
	defaultRelay.SetSink(sink)
}

// SetEventsEnabled toggles the advisory emission flag of the process-wide
// relay.
func SetEventsEnabled(enabled bool) {
	defaultRelay.SetEnabled(enabled)
}

// EventsEnabled reports the advisory emission flag of the process-wide
// relay.
func EventsEnabled() bool {
	return defaultRelay.Enabled()
}
