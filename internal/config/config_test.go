package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
host: lambda1.cs.cornell.edu
user: ymm26
data_dir: /data/ymm26/adva-performance-monitoring
connect_timeout: 45s
throttle:
  delay: 2s
  max_files: 100
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lambda1.cs.cornell.edu", cfg.Host)
	assert.Equal(t, "ymm26", cfg.User)
	assert.Equal(t, "/data/ymm26/adva-performance-monitoring", cfg.DataDir)
	assert.Equal(t, 45*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 2*time.Second, cfg.Throttle.Delay)
	assert.Equal(t, 100, cfg.Throttle.MaxFiles)
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
host: monitor-host
data_dir: /data/snapshots
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConnectTimeout, cfg.ConnectTimeout)
	assert.Equal(t, DefaultDelay, cfg.Throttle.Delay)
	assert.Equal(t, DefaultMaxFiles, cfg.Throttle.MaxFiles)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), ConfigFileName))
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "host: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_NegativeMaxFiles(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
host: h
data_dir: /d
throttle:
  max_files: -1
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestFind_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "host: h\n")

	found, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFind_ExplicitPathMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestFind_CurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "host: h\n")

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	found, err := Find("")
	require.NoError(t, err)
	// TempDir may be a symlink on macOS; compare the resolved paths
	wantResolved, _ := filepath.EvalSymlinks(path)
	gotResolved, _ := filepath.EvalSymlinks(found)
	assert.Equal(t, wantResolved, gotResolved)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1500*time.Millisecond, cfg.Throttle.Delay)
	assert.Equal(t, 5000, cfg.Throttle.MaxFiles)
	assert.Equal(t, 90*time.Second, cfg.ConnectTimeout)
}
