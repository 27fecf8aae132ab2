package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, dir string, content Config) string {
	t.Helper()
	tempFilePath := filepath.Join(dir, configFileName)
	data, err := yaml.Marshal(&content)
	require.NoError(t, err)
	err = os.WriteFile(tempFilePath, data, 0644)
	require.NoError(t, err)
	return tempFilePath
}

func TestLoad_ValidFile(t *testing.T) {
	path := createTempConfigFile(t, t.TempDir(), validConfig())

	cfg, errs, err := Load(path)
	require.NoError(t, err)
	assert.False(t, errs.HasErrors())
	assert.Equal(t, "Test Menu", cfg.Title)
	assert.Len(t, cfg.Launchables, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	fe, ok := err.(*FileError)
	require.True(t, ok)
	assert.True(t, fe.IsNotExist())
}

func TestLoad_OversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte("title: "+strings.Repeat("x", MaxConfigFileSize)), 0644))

	_, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestLoad_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0xfd}, 0644))

	_, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTF-8")
}

func TestLoad_MalformedYAMLIsFatalFinding(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte("title: [unclosed"), 0644))

	_, errs, err := Load(path)
	require.NoError(t, err)
	assert.True(t, errs.HasFatal())
}

func TestLoad_UnknownFieldsIgnored(t *testing.T) {
	doc := `
title: Forward Compatible
icon: menu
future_feature:
  nested: true
launchables:
  - id: browser
    name: Browser
    icon: web-browser
    command: firefox
    kind: direct
    experimental_flag: 42
`
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, errs, err := Load(path)
	require.NoError(t, err)
	assert.False(t, errs.HasErrors())
	assert.Equal(t, "Forward Compatible", cfg.Title)
	require.Len(t, cfg.Launchables, 1)
	assert.True(t, cfg.Launchables[0].Enabled, "enabled should default to true")
}

func TestLoad_EnabledFalseRespected(t *testing.T) {
	doc := `
title: Menu
icon: menu
launchables:
  - id: hidden
    name: Hidden
    icon: x
    command: firefox
    kind: direct
    enabled: false
`
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, _, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Launchables, 1)
	assert.False(t, cfg.Launchables[0].Enabled)
	assert.Empty(t, cfg.MainLaunchables())
}
