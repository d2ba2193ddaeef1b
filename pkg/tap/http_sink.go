package tap

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sqlscope/bridge/pkg/types"
)

// DefaultHTTPTimeout bounds a single event delivery attempt.
const DefaultHTTPTimeout = 5 * time.Second

// HTTPSinkConfig configures delivery to an out-of-process collector.
type HTTPSinkConfig struct {
	// Endpoint is the full URL events are posted to, e.g.
	// "http://localhost:10090/v1/events".
	Endpoint string         `yaml:"endpoint"`
	Timeout  types.Duration `yaml:"timeout"`
}

// HTTPSink ships each event as a JSON envelope to a collector endpoint.
// Delivery is synchronous, one POST per event, which preserves the relay's
// ordering guarantee. Failures are logged and the event is dropped; nothing
// is queued or retried.
type HTTPSink struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	instanceID string
	seq        atomic.Uint64
}

// NewHTTPSink creates an HTTP-backed sink.
func NewHTTPSink(config HTTPSinkConfig, logger *zap.Logger) *HTTPSink {
	timeout := config.Timeout.Std()
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	return &HTTPSink{
		endpoint: config.Endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

// Notify posts the event envelope to the collector. Fire-and-forget.
func (h *HTTPSink) Notify(kind types.EventKind, payload string) {
	env := types.Envelope{
		Kind:       int(kind),
		KindName:   kind.String(),
		Payload:    payload,
		Seq:        h.seq.Add(1),
		InstanceID: h.instanceID,
		EmittedAt:  time.Now().UTC(),
	}

	body, err := json.Marshal(env)
	if err != nil {
		h.logger.Warn("failed to marshal event envelope",
			zap.Stringer("kind", kind),
			zap.Error(err))
		return
	}

	resp, err := h.httpClient.Post(h.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		h.logger.Warn("failed to deliver event to collector",
			zap.String("endpoint", h.endpoint),
			zap.Stringer("kind", kind),
			zap.Error(err))
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		h.logger.Warn("collector rejected event",
			zap.String("endpoint", h.endpoint),
			zap.Stringer("kind", kind),
			zap.Int("status", resp.StatusCode))
	}
}

// Close releases idle connections.
func (h *HTTPSink) Close() error {
	h.httpClient.CloseIdleConnections()
	return nil
}
