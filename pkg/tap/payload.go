package tap

// Payload bounds carried over from the embedded engine's bridge contract.
// A formatted payload never exceeds maxPayloadBytes; raw SQL text is cut to
// fit a maxSQLBytes buffer before escaping. Truncation is silent and may
// leave the payload as invalid JSON; consumers accept that trade-off.
const (
	maxPayloadBytes = 1024
	maxSQLBytes     = 512
)

// clampPayload bounds a formatted payload, cutting at a byte boundary the
// way the original fixed-size buffer did.
func clampPayload(s string) string {
	if len(s) > maxPayloadBytes {
		return s[:maxPayloadBytes]
	}
	return s
}

// escapeSQL applies the narrow JSON escape the wire contract specifies:
// backslash and double quote are prefixed with a backslash, nothing else is
// altered. Output stops once the escape buffer bound is reached, so the
// result holds at most maxSQLBytes-1 bytes.
func escapeSQL(sql string) string {
	out := make([]byte, 0, len(sql))
	for i := 0; i < len(sql); i++ {
		if len(out) >= maxSQLBytes-2 {
			break
		}
		c := sql[i]
		if c == '"' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
