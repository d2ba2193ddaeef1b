package tap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlscope/bridge/pkg/types"
)

func testEnvelope() *types.Envelope {
	return &types.Envelope{
		Kind:       int(types.KindPageAllocate),
		KindName:   types.KindPageAllocate.String(),
		Payload:    `{"page":7,"type":2}`,
		Seq:        3,
		InstanceID: "tap-1",
		EmittedAt:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewTemplateFormatter_Empty(t *testing.T) {
	_, err := NewTemplateFormatter("")
	assert.Error(t, err)
}

func TestNewTemplateFormatter_UnknownPlaceholder(t *testing.T) {
	_, err := NewTemplateFormatter("{timestamp}\t{bogus}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{bogus}")
}

func TestNewTemplateFormatter_UnclosedPlaceholder(t *testing.T) {
	_, err := NewTemplateFormatter("{timestamp")
	assert.Error(t, err)
}

func TestNewTemplateFormatter_EmptyPlaceholder(t *testing.T) {
	_, err := NewTemplateFormatter("{}")
	assert.Error(t, err)
}

func TestTemplateFormatter_AllFields(t *testing.T) {
	formatter, err := NewTemplateFormatter("{timestamp} {kind} {code} {payload} {seq} {instance_id}")
	require.NoError(t, err)

	line := formatter.Format(testEnvelope())

	assert.Equal(t, `2026-08-30T12:00:00Z page_allocate 6 {"page":7,"type":2} 3 tap-1`, line)
}

func TestTemplateFormatter_LiteralOnly(t *testing.T) {
	formatter, err := NewTemplateFormatter("static line")
	require.NoError(t, err)

	assert.Equal(t, "static line", formatter.Format(testEnvelope()))
}

func TestTemplateFormatter_RepeatedPlaceholder(t *testing.T) {
	formatter, err := NewTemplateFormatter("{kind}|{kind}")
	require.NoError(t, err)

	assert.Equal(t, "page_allocate|page_allocate", formatter.Format(testEnvelope()))
}

func TestTemplateFormatter_Template(t *testing.T) {
	formatter, err := NewTemplateFormatter("{kind}")
	require.NoError(t, err)

	assert.Equal(t, "{kind}", formatter.Template())
}
