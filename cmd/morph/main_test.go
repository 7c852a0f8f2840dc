package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowTitle(t *testing.T) {
	assert.Equal(t, "Morph", windowTitle("Morph", nil))
	assert.Equal(t, "Morph - skull", windowTitle("Morph", []string{"skull"}))
	assert.Equal(t, "Morph - skull, horse", windowTitle("Morph", []string{"skull", "horse"}))
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Len(t, cfg.Entities, 2)

	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  width: 0\n"), 0o644))
	_, err = loadConfig(path)
	assert.Error(t, err)

	path = filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\nwidth = 640\n"), 0o644))
	cfg, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Contains(t, configUsage, "YAML")
	assert.Contains(t, configUsage, "TOML")
}
