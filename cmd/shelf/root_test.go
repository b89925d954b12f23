package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "exactly-10", truncateString("exactly-10", 10))
	assert.Equal(t, "toolon...", truncateString("toolongstring", 9))
	assert.Equal(t, "too", truncateString("toolong", 3))
}

func TestBuildRunConfig(t *testing.T) {
	baseDir := t.TempDir()
	outputRoot := t.TempDir()
	outputDir := filepath.Join(outputRoot, "organized")

	viper.Reset()
	defer viper.Reset()
	viper.Set("base_dir", baseDir)
	viper.Set("output_dir", outputDir)
	viper.Set("integrity", true)
	viper.Set("file_filter", `\.zip$`)
	viper.Set("max_workers", 3)

	cfg, err := buildRunConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, baseDir, cfg.BaseDir)
	assert.Equal(t, outputDir, cfg.OutputDir)
	assert.False(t, cfg.Simulate)
	assert.True(t, cfg.Integrity)
	assert.Equal(t, `\.zip$`, cfg.FileFilter)
	assert.Equal(t, 3, cfg.MaxWorkers)

	// The destination root is created up front in execute mode.
	assert.DirExists(t, outputDir)
}

func TestBuildRunConfigSimulateLeavesDiskAlone(t *testing.T) {
	baseDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "organized")

	viper.Reset()
	defer viper.Reset()
	viper.Set("base_dir", baseDir)
	viper.Set("output_dir", outputDir)
	viper.Set("simulate", true)

	cfg, err := buildRunConfig(nil)
	require.NoError(t, err)
	assert.True(t, cfg.Simulate)

	// A simulate run must not create the destination root.
	assert.NoDirExists(t, outputDir)
}

func TestBuildRunConfigPositionalArg(t *testing.T) {
	baseDir := t.TempDir()
	outputDir := t.TempDir()

	viper.Reset()
	defer viper.Reset()
	viper.Set("base_dir", "/ignored")
	viper.Set("output_dir", outputDir)

	cfg, err := buildRunConfig([]string{baseDir})
	require.NoError(t, err)
	assert.Equal(t, baseDir, cfg.BaseDir)
}
