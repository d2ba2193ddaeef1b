package types

import "time"

// Envelope is the wire form of a single tap event as shipped to an
// out-of-process collector. The payload is carried verbatim as the text the
// relay produced; it is not re-parsed on the emitting side, since truncated
// payloads are allowed to be invalid JSON.
type Envelope struct {
	Kind       int       `json:"kind"`
	KindName   string    `json:"kind_name"`
	Payload    string    `json:"payload"`
	Seq        uint64    `json:"seq"`
	InstanceID string    `json:"instance_id"`
	EmittedAt  time.Time `json:"emitted_at"`
}
