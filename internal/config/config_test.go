// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	// Ensure config directory exists
	err := EnsureConfigDir()
	require.NoError(t, err)

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Check defaults
	assert.Equal(t, "Arbor", cfg.Server.Name)
	assert.Equal(t, "1.0.0", cfg.Server.Version)
	assert.Equal(t, filepath.Join(tempDir, DefaultMemoryFileName), cfg.Storage.MemoryFile)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadReadsConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	require.NoError(t, EnsureConfigDir())
	configFile := filepath.Join(tempDir, DefaultConfigDir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(configFile, []byte(`{"log": {"level": "debug"}}`), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "Arbor", cfg.Server.Name)
}

func TestEnsureConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	err := EnsureConfigDir()
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(tempDir, DefaultConfigDir))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Creating it again is a no-op
	assert.NoError(t, EnsureConfigDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "Arbor", cfg.Server.Name)
	assert.Equal(t, "1.0.0", cfg.Server.Version)
	assert.NotEmpty(t, cfg.Storage.MemoryFile)
	assert.Contains(t, cfg.Storage.MemoryFile, "memories.json")
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `{
		"server": {"name": "Arbor Test", "version": "0.9.0"},
		"storage": {"memory_file": "/tmp/arbor-test/memories.json"},
		"log": {"level": "debug"}
	}`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "Arbor Test", cfg.Server.Name)
	assert.Equal(t, "0.9.0", cfg.Server.Version)
	assert.Equal(t, "/tmp/arbor-test/memories.json", cfg.Storage.MemoryFile)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromPathPartialFallsBackToDefaults(t *testing.T) {
	path := writeConfig(t, `{"log": {"level": "warn"}}`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "Arbor", cfg.Server.Name)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.NotEmpty(t, cfg.Storage.MemoryFile)
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadFromPathMalformed(t *testing.T) {
	path := writeConfig(t, `{not json`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestValidateLogLevel(t *testing.T) {
	path := writeConfig(t, `{"log": {"level": "verbose"}}`)

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestValidateEmptyMemoryFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.MemoryFile = ""
	assert.Error(t, validate(cfg))
}

func TestValidateEmptyServerName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Name = ""
	assert.Error(t, validate(cfg))
}

func TestValidateFillsDefaultLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = ""
	require.NoError(t, validate(cfg))
	assert.Equal(t, "info", cfg.Log.Level)
}
