package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasker/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TASKER_API_URL", "TASKER_TIMEOUT", "TASKER_SYNC_POLICY", "TASKER_USERNAME", "TASKER_PASSWORD"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := config.New(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, config.DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.Equal(t, config.PolicyOptimistic, cfg.SyncPolicy)
	assert.Equal(t, filepath.Join(dir, "token.json"), cfg.TokenPath())
}

func TestNew_SettingsFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yml := "api_url: http://localhost:8080/\ntimeout: 3s\nsync_policy: confirmed\nusername: alice\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0600))

	cfg, err := config.New(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, config.PolicyConfirmed, cfg.SyncPolicy)
	assert.Equal(t, "alice", cfg.Username)
}

func TestNew_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("api_url: http://file.example\n"), 0600))
	t.Setenv("TASKER_API_URL", "http://env.example")

	cfg, err := config.New(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example", cfg.APIURL)
}

func TestNew_InvalidPolicy(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKER_SYNC_POLICY", "eventually")

	_, err := config.New(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sync_policy")
}

func TestNew_InvalidURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKER_API_URL", "demo2.z-bit.ee")

	_, err := config.New(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api_url")
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "tasker"), config.DefaultConfigDir())
}
