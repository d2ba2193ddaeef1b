// Package collector implements the host side of the bridge: an HTTP
// endpoint that receives event envelopes from instrumented engines and fans
// them out to local sinks.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/sqlscope/bridge/internal/collector/metrics"
	"github.com/sqlscope/bridge/internal/common/httputil"
	"github.com/sqlscope/bridge/pkg/tap"
	"github.com/sqlscope/bridge/pkg/types"
)

// Path constants for collector endpoints
const (
	PathEvents = "/v1/events"
	PathHealth = "/healthz"
)

// Server accepts posted event envelopes and dispatches them to a sink.
type Server struct {
	sink      tap.Sink
	metrics   *metrics.CollectorMetrics
	server    *fasthttp.Server
	listener  net.Listener
	logger    *zap.Logger
	startTime time.Time
	received  atomic.Uint64
}

// NewServer creates a collector server dispatching to sink. metrics may be
// nil when metrics collection is disabled.
func NewServer(sink tap.Sink, m *metrics.CollectorMetrics, logger *zap.Logger) *Server {
	return &Server{
		sink:      sink,
		metrics:   m,
		logger:    logger,
		startTime: time.Now().UTC(),
	}
}

// Start begins accepting requests on the given address.
func (s *Server) Start(address string) error {
	s.server = &fasthttp.Server{
		Handler: s.Handler(),
		Name:    "SQLScope-Collector",
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	s.listener = listener

	s.logger.Info("Collector server started",
		zap.String("address", address))

	return s.server.Serve(listener)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("Shutting down collector server")
	return s.server.ShutdownWithContext(ctx)
}

// Handler returns the FastHTTP request handler.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		method := string(ctx.Method())
		path := string(ctx.Path())

		switch {
		case method == fasthttp.MethodPost && path == PathEvents:
			s.handleEvents(ctx)
		case method == fasthttp.MethodGet && path == PathHealth:
			s.handleHealth(ctx)
		case path == PathEvents || path == PathHealth:
			httputil.JSONError(ctx, "method not allowed", fasthttp.StatusMethodNotAllowed)
		default:
			httputil.JSONError(ctx, "not found", fasthttp.StatusNotFound)
		}
	}
}

// handleEvents decodes one envelope and forwards it to the sink. The payload
// text is passed through verbatim; truncated payloads from the emitting side
// are accepted as-is.
func (s *Server) handleEvents(ctx *fasthttp.RequestCtx) {
	var env types.Envelope
	if err := json.Unmarshal(ctx.PostBody(), &env); err != nil {
		s.recordInvalid("bad_json")
		s.logger.Debug("Rejected malformed event submission", zap.Error(err))
		httputil.JSONError(ctx, "malformed event envelope", fasthttp.StatusBadRequest)
		return
	}

	kind := types.EventKind(env.Kind)
	if !kind.Valid() {
		s.recordInvalid("bad_kind")
		s.logger.Debug("Rejected event with unknown kind", zap.Int("kind", env.Kind))
		httputil.JSONError(ctx, fmt.Sprintf("unknown event kind %d", env.Kind), fasthttp.StatusBadRequest)
		return
	}

	s.received.Add(1)
	s.sink.Notify(kind, env.Payload)

	if s.metrics != nil {
		s.metrics.RecordEvent(kind, len(env.Payload))
	}

	httputil.JSONSuccess(ctx, "accepted", fasthttp.StatusAccepted)
}

// handleHealth reports liveness plus basic ingestion stats.
func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	httputil.JSONData(ctx, map[string]interface{}{
		"status":          "ok",
		"uptime_seconds":  int(time.Since(s.startTime).Seconds()),
		"events_received": s.received.Load(),
	}, fasthttp.StatusOK)
}

func (s *Server) recordInvalid(reason string) {
	if s.metrics != nil {
		s.metrics.RecordInvalid(reason)
	}
}
