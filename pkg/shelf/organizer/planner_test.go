package organizer

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jamesainslie/shelf/pkg/shelf/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	target := Plan(types.GroupingKey{Library: "SDL2", Version: "2.30.1"}, "/out")
	assert.Equal(t, filepath.Join("/out", "SDL2"), target.GroupDir)
	assert.Equal(t, filepath.Join("/out", "SDL2", "SDL2-2.30.1"), target.SpecificDir)
}

func TestPlanNoVersion(t *testing.T) {
	target := Plan(types.GroupingKey{Library: "readme"}, "/out")
	assert.Equal(t, filepath.Join("/out", "readme"), target.GroupDir)
	assert.Equal(t, filepath.Join("/out", "readme", "readme"), target.SpecificDir)
}

func TestEnsureIdempotent(t *testing.T) {
	out := t.TempDir()
	target := Plan(types.GroupingKey{Library: "foo", Version: "1.0"}, out)

	require.NoError(t, Ensure(target))
	require.NoError(t, Ensure(target))

	info, err := os.Stat(target.SpecificDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Exactly one pair of directories: group contains only the specific dir.
	entries, err := os.ReadDir(target.GroupDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEnsureConcurrentSameGroup(t *testing.T) {
	out := t.TempDir()

	// Ten items, same library, different versions: all race to create
	// the same group directory.
	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := types.GroupingKey{Library: "boost", Version: string(rune('0' + i))}
			errs[i] = Ensure(Plan(key, out))
		}()
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "goroutine %d", i)
	}

	entries, err := os.ReadDir(filepath.Join(out, "boost"))
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}

func TestEnsureCollisionWithFile(t *testing.T) {
	out := t.TempDir()
	// A plain file where the group directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(out, "foo"), []byte("in the way"), 0o644))

	err := Ensure(Plan(types.GroupingKey{Library: "foo", Version: "1.0"}, out))
	require.Error(t, err)
}
