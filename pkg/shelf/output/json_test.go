package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/shelf/pkg/shelf/types"
)

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}
	require.NoError(t, f.Format(&buf, testSummary()))

	var out struct {
		Items []map[string]any `json:"items"`
		Meta  map[string]any   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	require.Len(t, out.Items, 3)
	assert.Equal(t, "SDL2", out.Items[0]["library"])
	assert.Equal(t, "2.30.1", out.Items[0]["version"])
	assert.Equal(t, "extracted", out.Items[0]["action"])
	assert.Equal(t, "rardecode: bad header crc", out.Items[2]["error"])

	assert.Equal(t, "/downloads", out.Meta["base_dir"])
	assert.Equal(t, float64(2), out.Meta["succeeded"])
	assert.Equal(t, float64(1), out.Meta["failed"])
	assert.Equal(t, float64(3), out.Meta["total_items"])
}

func TestJSONFormatterEmptySummary(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}
	require.NoError(t, f.Format(&buf, &types.Summary{}))

	var out jsonOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Empty(t, out.Items)
}

func TestJSONLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONLFormatter{}
	require.NoError(t, f.Format(&buf, testSummary()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	for _, line := range lines {
		var item map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &item), "line %q", line)
		assert.Contains(t, item, "name")
		assert.Contains(t, item, "action")
	}
}
