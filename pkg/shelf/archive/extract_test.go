package archive

import (
	"archive/tar"
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeZip creates a zip archive containing the given name→content entries.
func writeZip(t *testing.T, path string, entries map[string]string) {
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

// writeTarGz creates a tar.gz archive containing the given entries.
func writeTarGz(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for name, content := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		}))
		_, err = tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
}

func TestExtractZip(t *testing.T) {
	tmp := t.TempDir()
	archivePath := filepath.Join(tmp, "bundle.zip")
	writeZip(t, archivePath, map[string]string{
		"a.txt":     "alpha",
		"sub/b.txt": "beta",
	})

	dest := filepath.Join(tmp, "out")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	d := NewDispatcher("").WithRetry(1, 0)
	attempts, err := d.Extract(archivePath, dest)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)

	data, err := os.ReadFile(filepath.Join(dest, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))

	data, err = os.ReadFile(filepath.Join(dest, "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "beta", string(data))
}

func TestExtractTarGz(t *testing.T) {
	tmp := t.TempDir()
	archivePath := filepath.Join(tmp, "src.tar.gz")
	writeTarGz(t, archivePath, map[string]string{
		"src/main.c": "int main(void) { return 0; }\n",
	})

	dest := filepath.Join(tmp, "out")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	d := NewDispatcher("").WithRetry(1, 0)
	_, err := d.Extract(archivePath, dest)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "src", "main.c"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "int main")
}

func TestExtractGzipStream(t *testing.T) {
	tmp := t.TempDir()
	archivePath := filepath.Join(tmp, "notes.gz")

	f, err := os.Create(archivePath)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte("remember the milk"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	dest := filepath.Join(tmp, "out")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	d := NewDispatcher("").WithRetry(1, 0)
	_, err = d.Extract(archivePath, dest)
	require.NoError(t, err)

	// Single-stream output is named after the archive stem.
	data, err := os.ReadFile(filepath.Join(dest, "notes"))
	require.NoError(t, err)
	assert.Equal(t, "remember the milk", string(data))
}

func TestExtractRejectsEscapingMembers(t *testing.T) {
	tmp := t.TempDir()
	archivePath := filepath.Join(tmp, "evil.tar.gz")
	writeTarGz(t, archivePath, map[string]string{
		"../escape.txt": "gotcha",
	})

	dest := filepath.Join(tmp, "out")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	d := NewDispatcher("").WithRetry(1, 0)
	_, err := d.Extract(archivePath, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")

	_, statErr := os.Stat(filepath.Join(tmp, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractUnsupported(t *testing.T) {
	d := NewDispatcher("").WithRetry(1, 0)
	_, err := d.Extract(filepath.Join(t.TempDir(), "file.txt"), t.TempDir())
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestExtractRetriesCorruptArchive(t *testing.T) {
	tmp := t.TempDir()
	archivePath := filepath.Join(tmp, "broken.zip")
	require.NoError(t, os.WriteFile(archivePath, []byte("not a zip"), 0o644))

	start := time.Now()
	d := NewDispatcher("").WithRetry(3, 10*time.Millisecond)
	attempts, err := d.Extract(archivePath, tmp)

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	// Two inter-attempt delays must have elapsed.
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestExtractOverwritesPartialOutput(t *testing.T) {
	tmp := t.TempDir()
	archivePath := filepath.Join(tmp, "bundle.zip")
	writeZip(t, archivePath, map[string]string{"a.txt": "fresh"})

	dest := filepath.Join(tmp, "out")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	// Simulate a partial member from an earlier failed attempt.
	require.NoError(t, os.WriteFile(filepath.Join(dest, "a.txt"), []byte("stale partial data"), 0o644))

	d := NewDispatcher("").WithRetry(1, 0)
	_, err := d.Extract(archivePath, dest)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}
