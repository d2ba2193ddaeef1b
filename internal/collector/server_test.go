package collector

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/sqlscope/bridge/internal/collector/metrics"
	"github.com/sqlscope/bridge/internal/common/httputil"
	"github.com/sqlscope/bridge/pkg/types"
)

// recordingSink captures dispatched events.
type recordingSink struct {
	kinds    []types.EventKind
	payloads []string
}

func (r *recordingSink) Notify(kind types.EventKind, payload string) {
	r.kinds = append(r.kinds, kind)
	r.payloads = append(r.payloads, payload)
}

func (r *recordingSink) Close() error { return nil }

func postEvent(t *testing.T, server *Server, body string) *fasthttp.RequestCtx {
	t.Helper()

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI(PathEvents)
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.Header.SetContentType("application/json")
	ctx.Request.SetBodyString(body)

	server.Handler()(ctx)
	return ctx
}

func TestServer_HandleEvents_Dispatches(t *testing.T) {
	sink := &recordingSink{}
	server := NewServer(sink, nil, zap.NewNop())

	env := types.Envelope{
		Kind:     int(types.KindPageAllocate),
		KindName: "page_allocate",
		Payload:  `{"page":7,"type":2}`,
		Seq:      1,
	}
	body, err := json.Marshal(env)
	require.NoError(t, err)

	ctx := postEvent(t, server, string(body))

	assert.Equal(t, fasthttp.StatusAccepted, ctx.Response.StatusCode())
	require.Len(t, sink.payloads, 1)
	assert.Equal(t, types.KindPageAllocate, sink.kinds[0])
	assert.Equal(t, `{"page":7,"type":2}`, sink.payloads[0])
}

func TestServer_HandleEvents_MalformedJSON(t *testing.T) {
	sink := &recordingSink{}
	server := NewServer(sink, nil, zap.NewNop())

	ctx := postEvent(t, server, "{not json")

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Empty(t, sink.payloads)
}

func TestServer_HandleEvents_UnknownKind(t *testing.T) {
	sink := &recordingSink{}
	server := NewServer(sink, nil, zap.NewNop())

	ctx := postEvent(t, server, `{"kind":99,"payload":"{}"}`)

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Empty(t, sink.payloads)

	var resp httputil.APIResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "99")
}

func TestServer_HandleEvents_TruncatedPayloadAccepted(t *testing.T) {
	sink := &recordingSink{}
	server := NewServer(sink, nil, zap.NewNop())

	// A truncated payload is not valid JSON; the collector passes it
	// through untouched.
	truncated := `{"sql":"SELECT * FR`
	body := fmt.Sprintf(`{"kind":%d,"payload":%q}`, int(types.KindParseStart), truncated)

	ctx := postEvent(t, server, body)

	assert.Equal(t, fasthttp.StatusAccepted, ctx.Response.StatusCode())
	require.Len(t, sink.payloads, 1)
	assert.Equal(t, truncated, sink.payloads[0])
}

func TestServer_HandleEvents_RecordsMetrics(t *testing.T) {
	sink := &recordingSink{}
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry(), zap.NewNop())
	server := NewServer(sink, m, zap.NewNop())

	postEvent(t, server, `{"kind":7,"payload":"{\"page\":7}"}`)
	postEvent(t, server, `{"kind":-3,"payload":"{}"}`)

	mctx := &fasthttp.RequestCtx{}
	mctx.Request.SetRequestURI("/metrics")
	mctx.Request.Header.SetMethod("GET")
	m.ServeHTTP(mctx)

	body := string(mctx.Response.Body())
	assert.Contains(t, body, `kind="page_free"`)
	assert.Contains(t, body, `reason="bad_kind"`)
}

func TestServer_Health(t *testing.T) {
	server := NewServer(&recordingSink{}, nil, zap.NewNop())

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI(PathHealth)
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	server.Handler()(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp httputil.APIResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.True(t, resp.Success)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	server := NewServer(&recordingSink{}, nil, zap.NewNop())

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI(PathEvents)
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	server.Handler()(ctx)

	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
}

func TestServer_NotFound(t *testing.T) {
	server := NewServer(&recordingSink{}, nil, zap.NewNop())

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("/nope")
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	server.Handler()(ctx)

	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestServer_PreservesOrder(t *testing.T) {
	sink := &recordingSink{}
	server := NewServer(sink, nil, zap.NewNop())

	for _, kind := range []types.EventKind{
		types.KindParseStart,
		types.KindParseComplete,
		types.KindExecStart,
		types.KindExecComplete,
	} {
		postEvent(t, server, fmt.Sprintf(`{"kind":%d,"payload":"{}"}`, int(kind)))
	}

	assert.Equal(t, []types.EventKind{
		types.KindParseStart,
		types.KindParseComplete,
		types.KindExecStart,
		types.KindExecComplete,
	}, sink.kinds)
}
