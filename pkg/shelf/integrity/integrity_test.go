package integrity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashKnownVectors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	sums, err := Hash(path)
	require.NoError(t, err)

	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", sums[AlgMD5])
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		sums[AlgSHA256])
	assert.Equal(t,
		"9b71d224bd62f3785d96d46ad3ea3d73319bfbc2890caadae2dff72519673ca7"+
			"2323c3d99ba5c11d7c7acc6e14b8c5da0c4663475c2e5c3adef46f73bcdec043",
		sums[AlgSHA512])
}

func TestHashEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	sums, err := Hash(path)
	require.NoError(t, err)

	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", sums[AlgMD5])
	assert.Len(t, sums, 3)
}

func TestHashLargeFileCrossesChunks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "large.bin")
	data := make([]byte, chunkSize*2+17)
	for i := range data {
		data[i] = byte(i % 251)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	sums, err := Hash(path)
	require.NoError(t, err)

	// Same content hashed again must agree.
	again, err := Hash(path)
	require.NoError(t, err)
	assert.Equal(t, sums, again)
}

func TestHashMissingFile(t *testing.T) {
	_, err := Hash(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
