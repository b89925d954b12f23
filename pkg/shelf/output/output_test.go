package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/shelf/pkg/shelf/types"
)

func testSummary() *types.Summary {
	s := &types.Summary{
		BaseDir:   "/downloads",
		OutputDir: "/organized",
		Workers:   2,
	}
	s.Add(types.Outcome{
		Item:        types.SourceItem{Name: "SDL2-2.30.1.tar.gz", Path: "/downloads/SDL2-2.30.1.tar.gz", Size: 1048576},
		Key:         types.GroupingKey{Library: "SDL2", Version: "2.30.1"},
		Action:      types.ActionExtracted,
		Destination: "/organized/SDL2/SDL2-2.30.1",
		Attempts:    1,
	})
	s.Add(types.Outcome{
		Item:        types.SourceItem{Name: "notes.txt", Path: "/downloads/notes.txt", Size: 512},
		Key:         types.GroupingKey{Library: "notes"},
		Action:      types.ActionMoved,
		Destination: "/organized/notes/notes",
	})
	s.Add(types.Outcome{
		Item:   types.SourceItem{Name: "broken.rar", Path: "/downloads/broken.rar", Size: 2048},
		Key:    types.GroupingKey{Library: "broken"},
		Action: types.ActionFailed,
		Error:  "rardecode: bad header crc",
	})
	return s
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("test", func() Formatter { return &PlainFormatter{} })

	f, err := r.Get("test")
	require.NoError(t, err)
	assert.NotNil(t, f)

	_, err = r.Get("nonexistent")
	assert.Error(t, err)

	assert.Equal(t, []string{"test"}, r.Available())
}

func TestDefaultRegistryFormatters(t *testing.T) {
	for _, name := range []string{"pretty", "plain", "json", "jsonl", "yaml"} {
		f, err := Get(name)
		require.NoError(t, err, "formatter %q not registered", name)
		assert.NotNil(t, f)
	}
}

func TestAllFormattersProduceOutput(t *testing.T) {
	summary := testSummary()

	for _, name := range Available() {
		f, err := Get(name)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, f.Format(&buf, summary), "formatter %q", name)
		assert.NotEmpty(t, buf.String(), "formatter %q produced no output", name)
	}
}
