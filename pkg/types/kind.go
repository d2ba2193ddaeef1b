package types

import "fmt"

// EventKind identifies an engine instrumentation point. Codes are part of
// the wire contract with visualization hosts and mirror the embedded
// engine's enumeration order, so they must never be renumbered.
type EventKind int

const (
	KindEngineOpen EventKind = iota
	// KindEngineClose is reserved in the engine enumeration; no hook emits it.
	KindEngineClose
	KindRecordInsert
	KindRecordDelete
	KindNodeSplit
	KindNodeRebalance
	KindPageAllocate
	KindPageFree
	KindParseStart
	KindParseToken
	KindParseComplete
	KindExecStart
	KindExecStep
	KindExecComplete

	numEventKinds = int(KindExecComplete) + 1
)

var kindNames = [numEventKinds]string{
	KindEngineOpen:    "engine_open",
	KindEngineClose:   "engine_close",
	KindRecordInsert:  "record_insert",
	KindRecordDelete:  "record_delete",
	KindNodeSplit:     "node_split",
	KindNodeRebalance: "node_rebalance",
	KindPageAllocate:  "page_allocate",
	KindPageFree:      "page_free",
	KindParseStart:    "parse_start",
	KindParseToken:    "parse_token",
	KindParseComplete: "parse_complete",
	KindExecStart:     "exec_start",
	KindExecStep:      "exec_step",
	KindExecComplete:  "exec_complete",
}

// Valid reports whether k is one of the defined instrumentation points.
func (k EventKind) Valid() bool {
	return k >= 0 && int(k) < numEventKinds
}

// String returns the stable snake_case name for the kind, or "unknown(N)"
// for out-of-range codes.
func (k EventKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("unknown(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind resolves a kind name back to its code.
func ParseKind(name string) (EventKind, error) {
	for i, n := range kindNames {
		if n == name {
			return EventKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", name)
}

// Kinds returns all defined event kinds in code order.
func Kinds() []EventKind {
	kinds := make([]EventKind, numEventKinds)
	for i := range kinds {
		kinds[i] = EventKind(i)
	}
	return kinds
}
