package tap

import (
	"errors"

	"github.com/sqlscope/bridge/pkg/types"
)

// MultiSink fans each event out to several backends in registration order.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a sink dispatching to all provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Notify forwards the event to every registered sink.
func (m *MultiSink) Notify(kind types.EventKind, payload string) {
	for _, s := range m.sinks {
		s.Notify(kind, payload)
	}
}

// Close closes all sinks and returns their errors combined.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
