// Package tap is the event-emission shim between an embedded SQL engine and
// a visualization host. The engine's instrumentation points call the typed
// hooks on a Relay; each hook formats its parameters into a small
// fixed-schema JSON payload and forwards it synchronously to the registered
// sink. The relay holds no state across calls and never blocks, queues or
// retries: events reach the sink in exactly the order the hooks fire.
package tap

import (
	"fmt"
	"sync/atomic"

	"github.com/sqlscope/bridge/pkg/types"
)

// Relay converts instrumentation calls into sink notifications. A nil sink
// makes every hook a silent no-op.
//
// The enablement flag is advisory: hooks emit regardless of its value, and
// instrumented call sites are expected to consult Enabled before doing any
// work to prepare a call. Keeping the check on the caller side preserves the
// original bridge contract.
type Relay struct {
	sink    Sink
	enabled atomic.Bool
}

// NewRelay creates a relay forwarding to sink. Events start enabled.
func NewRelay(sink Sink) *Relay {
	r := &Relay{sink: sink}
	r.enabled.Store(true)
	return r
}

// SetSink replaces the registered sink. Not safe to call concurrently with
// running hooks; register before handing the relay to the engine.
func (r *Relay) SetSink(sink Sink) {
	r.sink = sink
}

// SetEnabled toggles the advisory emission flag.
func (r *Relay) SetEnabled(enabled bool) {
	r.enabled.Store(enabled)
}

// Enabled reports the advisory emission flag.
func (r *Relay) Enabled() bool {
	return r.enabled.Load()
}

// emit forwards one formatted payload. Absent sink means silent drop.
func (r *Relay) emit(kind types.EventKind, payload string) {
	if r.sink == nil {
		return
	}
	r.sink.Notify(kind, clampPayload(payload))
}

// EngineOpen reports the engine opening a database file.
func (r *Relay) EngineOpen(pageSize, numPages int) {
	r.emit(types.KindEngineOpen, fmt.Sprintf(`{"pageSize":%d,"numPages":%d}`, pageSize, numPages))
}

// RecordInsert reports a cell insertion into a b-tree page.
func (r *Relay) RecordInsert(page, cell, keyLen int) {
	r.emit(types.KindRecordInsert, fmt.Sprintf(`{"page":%d,"cell":%d,"keyLen":%d}`, page, cell, keyLen))
}

// RecordDelete reports a cell removal from a b-tree page.
func (r *Relay) RecordDelete(page, cell int) {
	r.emit(types.KindRecordDelete, fmt.Sprintf(`{"page":%d,"cell":%d}`, page, cell))
}

// NodeSplit reports a b-tree node split.
func (r *Relay) NodeSplit(originalPage, newPage, splitCell int) {
	r.emit(types.KindNodeSplit, fmt.Sprintf(`{"originalPage":%d,"newPage":%d,"splitCell":%d}`, originalPage, newPage, splitCell))
}

// NodeRebalance reports a b-tree rebalance touching a page.
func (r *Relay) NodeRebalance(page, numCells int) {
	r.emit(types.KindNodeRebalance, fmt.Sprintf(`{"page":%d,"numCells":%d}`, page, numCells))
}

// PageAllocate reports a pager allocation.
func (r *Relay) PageAllocate(page, pageType int) {
	r.emit(types.KindPageAllocate, fmt.Sprintf(`{"page":%d,"type":%d}`, page, pageType))
}

// PageFree reports a page returned to the freelist.
func (r *Relay) PageFree(page int) {
	r.emit(types.KindPageFree, fmt.Sprintf(`{"page":%d}`, page))
}

// ParseStart reports the parser starting on a statement. The SQL text is the
// only field that gets the wire contract's backslash/quote escape; it is
// also cut to the escape buffer bound first.
func (r *Relay) ParseStart(sql string) {
	r.emit(types.KindParseStart, fmt.Sprintf(`{"sql":"%s"}`, escapeSQL(sql)))
}

// ParseToken reports one token produced by the tokenizer. Token text is
// forwarded unescaped; the engine guarantees token spellings contain no JSON
// special characters.
func (r *Relay) ParseToken(token string, tokenType int) {
	r.emit(types.KindParseToken, fmt.Sprintf(`{"token":"%s","type":%d}`, token, tokenType))
}

// ParseComplete reports the parser finishing, successfully or not.
func (r *Relay) ParseComplete(success bool) {
	v := 0
	if success {
		v = 1
	}
	r.emit(types.KindParseComplete, fmt.Sprintf(`{"success":%d}`, v))
}

// ExecStart reports the virtual machine starting a compiled program.
func (r *Relay) ExecStart(numOpcodes int) {
	r.emit(types.KindExecStart, fmt.Sprintf(`{"numOpcodes":%d}`, numOpcodes))
}

// ExecStep reports one virtual machine step. Opcode names are forwarded
// unescaped, same contract as ParseToken.
func (r *Relay) ExecStep(pc int, opcode string, p1, p2, p3 int) {
	r.emit(types.KindExecStep, fmt.Sprintf(`{"pc":%d,"opcode":"%s","p1":%d,"p2":%d,"p3":%d}`, pc, opcode, p1, p2, p3))
}

// ExecComplete reports the virtual machine finishing with a result code.
func (r *Relay) ExecComplete(resultCode int) {
	r.emit(types.KindExecComplete, fmt.Sprintf(`{"resultCode":%d}`, resultCode))
}
