package tap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeSQL_Quotes(t *testing.T) {
	assert.Equal(t, `SELECT \"name\" FROM t`, escapeSQL(`SELECT "name" FROM t`))
}

func TestEscapeSQL_Backslashes(t *testing.T) {
	assert.Equal(t, `LIKE '%\\%'`, escapeSQL(`LIKE '%\%'`))
}

func TestEscapeSQL_NothingElseAltered(t *testing.T) {
	// Control characters and unicode pass through untouched; the contract
	// escapes quote and backslash only.
	in := "SELECT\t1\n-- café"
	assert.Equal(t, in, escapeSQL(in))
}

func TestEscapeSQL_Empty(t *testing.T) {
	assert.Equal(t, "", escapeSQL(""))
}

func TestEscapeSQL_OversizedInput_Bounded(t *testing.T) {
	long := strings.Repeat("a", 4*maxSQLBytes)

	out := escapeSQL(long)

	assert.LessOrEqual(t, len(out), maxSQLBytes-1)
	assert.Equal(t, strings.Repeat("a", maxSQLBytes-2), out)
}

func TestEscapeSQL_OversizedEscapes_Bounded(t *testing.T) {
	// Every input byte doubles; output still stays within the bound.
	long := strings.Repeat(`"`, maxSQLBytes)

	out := escapeSQL(long)

	assert.LessOrEqual(t, len(out), maxSQLBytes-1)
}

func TestClampPayload(t *testing.T) {
	small := `{"page":1}`
	assert.Equal(t, small, clampPayload(small))

	big := strings.Repeat("x", maxPayloadBytes+100)
	assert.Len(t, clampPayload(big), maxPayloadBytes)
}

func TestParseStart_OversizedSQL_BoundedNotValidated(t *testing.T) {
	sink := &recordingSink{}
	relay := NewRelay(sink)

	relay.ParseStart(strings.Repeat("SELECT ", 1000))

	// Only bounded memory is asserted; the truncated payload is allowed to
	// be invalid JSON.
	require.Len(t, sink.payloads, 1)
	assert.LessOrEqual(t, len(sink.payloads[0]), maxPayloadBytes)
}
