package tap

import (
	"go.uber.org/zap"

	"github.com/sqlscope/bridge/pkg/types"
)

// LogSink writes every event to a structured logger. Useful for development
// and for running the collector without a file backend.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink logging events at info level.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Notify logs the event with kind and payload fields.
func (l *LogSink) Notify(kind types.EventKind, payload string) {
	l.logger.Info("engine event",
		zap.Stringer("kind", kind),
		zap.Int("code", int(kind)),
		zap.String("payload", payload),
	)
}

// Close returns nil; the logger's lifecycle belongs to the caller.
func (l *LogSink) Close() error {
	return nil
}
