package organizer

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/shelf/pkg/shelf/integrity"
	"github.com/jamesainslie/shelf/pkg/shelf/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newItem stats path and builds the SourceItem a scan would produce.
func newItem(t *testing.T, path string) types.SourceItem {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return types.SourceItem{
		Name:    filepath.Base(path),
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Mode:    info.Mode(),
	}
}

// writeZipFile creates a zip archive with the given entries.
func writeZipFile(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestProcessMovesPlainFile(t *testing.T) {
	base, out := t.TempDir(), t.TempDir()
	src := filepath.Join(base, "bar.txt")
	require.NoError(t, os.WriteFile(src, []byte("plain"), 0o644))

	p := NewProcessor(Config{BaseDir: base, OutputDir: out})
	outcome := p.Process(newItem(t, src))

	assert.Equal(t, types.ActionMoved, outcome.Action)
	assert.Equal(t, types.GroupingKey{Library: "bar"}, outcome.Key)

	// Moved, not copied.
	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(out, "bar", "bar", "bar.txt"))
	require.NoError(t, err)
	assert.Equal(t, "plain", string(data))
}

func TestProcessExtractsArchiveAndRemovesSource(t *testing.T) {
	base, out := t.TempDir(), t.TempDir()
	src := filepath.Join(base, "foo-1.0.zip")
	writeZipFile(t, src, map[string]string{"a.txt": "content a"})

	p := NewProcessor(Config{BaseDir: base, OutputDir: out, RetryAttempts: 1})
	outcome := p.Process(newItem(t, src))

	require.Equal(t, types.ActionExtracted, outcome.Action)
	assert.Equal(t, 1, outcome.Attempts)

	data, err := os.ReadFile(filepath.Join(out, "foo", "foo-1.0", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content a", string(data))

	// Source archive is deleted after successful extraction.
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestProcessFailedExtractionRetainsSource(t *testing.T) {
	base, out := t.TempDir(), t.TempDir()
	src := filepath.Join(base, "broken-2.0.zip")
	require.NoError(t, os.WriteFile(src, []byte("definitely not a zip"), 0o644))

	p := NewProcessor(Config{BaseDir: base, OutputDir: out, RetryAttempts: 3, RetryDelay: 0})
	outcome := p.Process(newItem(t, src))

	assert.Equal(t, types.ActionFailed, outcome.Action)
	assert.Equal(t, 3, outcome.Attempts)
	require.Error(t, outcome.Err)
	assert.NotEmpty(t, outcome.Error)

	// The archive must survive a failed extraction.
	_, err := os.Stat(src)
	assert.NoError(t, err)
}

func TestProcessIntegrityChecksums(t *testing.T) {
	base, out := t.TempDir(), t.TempDir()
	src := filepath.Join(base, "data-1.2.zip")
	writeZipFile(t, src, map[string]string{"x": "y"})

	want, err := integrity.Hash(src)
	require.NoError(t, err)

	p := NewProcessor(Config{BaseDir: base, OutputDir: out, Integrity: true, RetryAttempts: 1})
	outcome := p.Process(newItem(t, src))

	require.Equal(t, types.ActionExtracted, outcome.Action)
	assert.Equal(t, want, outcome.Checksums)
	assert.Len(t, outcome.Checksums, 3)
}

func TestProcessSimulateTouchesNothing(t *testing.T) {
	base, out := t.TempDir(), t.TempDir()
	archivePath := filepath.Join(base, "foo-1.0.zip")
	writeZipFile(t, archivePath, map[string]string{"a.txt": "a"})
	plainPath := filepath.Join(base, "bar.txt")
	require.NoError(t, os.WriteFile(plainPath, []byte("b"), 0o644))

	p := NewProcessor(Config{BaseDir: base, OutputDir: out, Simulate: true})

	archiveOutcome := p.Process(newItem(t, archivePath))
	plainOutcome := p.Process(newItem(t, plainPath))

	assert.Equal(t, types.ActionSimulatedExtract, archiveOutcome.Action)
	assert.Equal(t, types.ActionSimulatedMove, plainOutcome.Action)

	// Sources untouched, output untouched.
	_, err := os.Stat(archivePath)
	assert.NoError(t, err)
	_, err = os.Stat(plainPath)
	assert.NoError(t, err)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProcessPlacementErrorFailsItemOnly(t *testing.T) {
	base, out := t.TempDir(), t.TempDir()
	src := filepath.Join(base, "blocked.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	// A file occupies the group directory path.
	require.NoError(t, os.WriteFile(filepath.Join(out, "blocked"), []byte("in the way"), 0o644))

	p := NewProcessor(Config{BaseDir: base, OutputDir: out})
	outcome := p.Process(newItem(t, src))

	assert.Equal(t, types.ActionFailed, outcome.Action)
	require.Error(t, outcome.Err)

	// The item itself was not consumed.
	_, err := os.Stat(src)
	assert.NoError(t, err)
}
