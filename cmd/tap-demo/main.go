// tap-demo replays the instrumentation trace of a small insert workload
// through a relay, either into a running collector or straight to the
// console. It exercises the full emission path without a real engine.
package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/sqlscope/bridge/internal/common/logger"
	"github.com/sqlscope/bridge/pkg/tap"
)

func main() {
	collectorURL := flag.String("collector", "", "collector events endpoint, e.g. http://localhost:10090/v1/events; logs locally when empty")
	runs := flag.Int("runs", 1, "number of times to replay the trace")
	flag.Parse()

	demoLogger, err := logger.NewDefaultLogger()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer demoLogger.Sync()

	var sink tap.Sink
	if *collectorURL != "" {
		sink = tap.NewHTTPSink(tap.HTTPSinkConfig{Endpoint: *collectorURL}, demoLogger)
		demoLogger.Info("Shipping events to collector", zap.String("endpoint", *collectorURL))
	} else {
		sink = tap.NewLogSink(demoLogger)
	}
	defer sink.Close()

	relay := tap.NewRelay(sink)

	for i := 0; i < *runs; i++ {
		replayTrace(relay)
	}

	demoLogger.Info("Demo trace complete", zap.Int("runs", *runs))
}

// replayTrace emits the hook sequence a real engine produces for a single
// INSERT: parse, compile, execute, then b-tree and pager activity.
func replayTrace(relay *tap.Relay) {
	// The enablement flag is advisory; call sites gate on it themselves.
	if !relay.Enabled() {
		return
	}

	relay.EngineOpen(4096, 2)

	relay.ParseStart(`INSERT INTO users (name) VALUES ('ada')`)
	for _, tok := range []struct {
		text string
		typ  int
	}{
		{"INSERT", 108},
		{"INTO", 109},
		{"users", 59},
		{"(", 22},
		{"name", 59},
		{")", 23},
		{"VALUES", 117},
		{"(", 22},
		{"'ada'", 110},
		{")", 23},
	} {
		relay.ParseToken(tok.text, tok.typ)
	}
	relay.ParseComplete(true)

	relay.ExecStart(8)
	steps := []struct {
		opcode     string
		p1, p2, p3 int
	}{
		{"OP_Init", 0, 7, 0},
		{"OP_OpenWrite", 0, 2, 2},
		{"OP_NewRowid", 0, 1, 0},
		{"OP_String8", 0, 2, 0},
		{"OP_MakeRecord", 2, 1, 3},
		{"OP_Insert", 0, 3, 1},
		{"OP_Close", 0, 0, 0},
		{"OP_Halt", 0, 0, 0},
	}
	for pc, step := range steps {
		relay.ExecStep(pc, step.opcode, step.p1, step.p2, step.p3)
	}

	relay.PageAllocate(3, 13)
	relay.RecordInsert(3, 0, 21)
	relay.NodeSplit(3, 4, 10)
	relay.NodeRebalance(2, 2)
	relay.RecordDelete(4, 1)
	relay.PageFree(5)

	relay.ExecComplete(0)
}
