package tap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sqlscope/bridge/pkg/types"
)

func TestNewFileSink_InvalidTemplate(t *testing.T) {
	config := FileSinkConfig{
		Path:     filepath.Join(t.TempDir(), "events.log"),
		Template: "{not_a_field}",
	}

	_, err := NewFileSink(config, zap.NewNop())
	assert.Error(t, err)
}

func TestNewFileSink_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "events.log")

	sink, err := NewFileSink(FileSinkConfig{Path: path}, zap.NewNop())
	require.NoError(t, err)
	defer sink.Close()

	assert.DirExists(t, filepath.Dir(path))
}

func TestFileSink_WritesFormattedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")

	sink, err := NewFileSink(FileSinkConfig{
		Path:     path,
		Template: "{kind}\t{payload}",
	}, zap.NewNop())
	require.NoError(t, err)
	defer sink.Close()

	sink.Notify(types.KindPageAllocate, `{"page":7,"type":2}`)
	sink.Notify(types.KindPageFree, `{"page":7}`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "page_allocate\t{\"page\":7,\"type\":2}", lines[0])
	assert.Equal(t, "page_free\t{\"page\":7}", lines[1])
}

func TestFileSink_SequenceIncrements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")

	sink, err := NewFileSink(FileSinkConfig{
		Path:     path,
		Template: "{seq}",
	}, zap.NewNop())
	require.NoError(t, err)
	defer sink.Close()

	sink.Notify(types.KindExecStart, `{"numOpcodes":1}`)
	sink.Notify(types.KindExecComplete, `{"resultCode":0}`)
	sink.Notify(types.KindPageFree, `{"page":1}`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", string(data))
}

func TestFileSink_DefaultTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")

	sink, err := NewFileSink(FileSinkConfig{Path: path}, zap.NewNop())
	require.NoError(t, err)
	defer sink.Close()

	sink.Notify(types.KindEngineOpen, `{"pageSize":4096,"numPages":1}`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	fields := strings.Split(strings.TrimRight(string(data), "\n"), "\t")
	require.Len(t, fields, 3)
	assert.Equal(t, "engine_open", fields[1])
	assert.Equal(t, `{"pageSize":4096,"numPages":1}`, fields[2])
}

func TestFileSink_Close(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")

	sink, err := NewFileSink(FileSinkConfig{Path: path}, zap.NewNop())
	require.NoError(t, err)

	sink.Notify(types.KindPageFree, `{"page":1}`)
	assert.NoError(t, sink.Close())
}
