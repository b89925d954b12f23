package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &YAMLFormatter{}
	require.NoError(t, f.Format(&buf, testSummary()))

	var out yamlOutput
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))

	require.Len(t, out.Items, 3)
	assert.Equal(t, "SDL2", out.Items[0].Library)
	assert.Equal(t, "2.30.1", out.Items[0].Version)
	assert.Equal(t, "moved", out.Items[1].Action)
	assert.Equal(t, "rardecode: bad header crc", out.Items[2].Error)

	assert.Equal(t, "/downloads", out.Meta.BaseDir)
	assert.Equal(t, 2, out.Meta.Succeeded)
	assert.Equal(t, 1, out.Meta.Failed)
	assert.Equal(t, int64(1051136), out.Meta.TotalBytes)
}
