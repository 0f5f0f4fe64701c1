package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGet_Defaults(t *testing.T) {
	cfg, err := Get(nil)
	require.NoError(t, err)

	assert.Equal(t, defaultAPIURL, cfg.APIURL)
	assert.Equal(t, defaultPollQuoteInterval, cfg.PollQuoteInterval)
	assert.Equal(t, defaultOperationTimeout, cfg.OperationTimeout)
	assert.Equal(t, defaultDashboardAddr, cfg.DashboardAddr)
	assert.Equal(t, defaultWalDir, cfg.WalDir)
	assert.Equal(t, defaultQueueCapacity, cfg.QueueCapacity)
}

func TestGet_Flags(t *testing.T) {
	cfg, err := Get([]string{
		"-api-url", "https://api.orbital.dev/api/v1",
		"-poll-quote-interval", "10s",
		"-dashboard-addr", "0.0.0.0:9090",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://api.orbital.dev/api/v1", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.PollQuoteInterval)
	assert.Equal(t, "0.0.0.0:9090", cfg.DashboardAddr)
}

func TestGet_Yaml(t *testing.T) {
	path := writeConfig(t, `
api_url: https://api.orbital.dev/api/v1
poll_quote_interval: 15s
operation_timeout: 45s
dashboard_addr: 127.0.0.1:9999
wal_dir: /var/lib/orbital/receipts
queue_capacity: 32
`)

	cfg, err := Get([]string{"-config", path})
	require.NoError(t, err)

	assert.Equal(t, "https://api.orbital.dev/api/v1", cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.PollQuoteInterval)
	assert.Equal(t, 45*time.Second, cfg.OperationTimeout)
	assert.Equal(t, "127.0.0.1:9999", cfg.DashboardAddr)
	assert.Equal(t, "/var/lib/orbital/receipts", cfg.WalDir)
	assert.Equal(t, 32, cfg.QueueCapacity)
}

func TestGet_YamlPartialFallsBackToDefaults(t *testing.T) {
	path := writeConfig(t, "api_url: https://api.orbital.dev/api/v1\n")

	cfg, err := Get([]string{"-config", path})
	require.NoError(t, err)

	assert.Equal(t, defaultPollQuoteInterval, cfg.PollQuoteInterval)
	assert.Equal(t, defaultDashboardAddr, cfg.DashboardAddr)
	assert.Equal(t, defaultQueueCapacity, cfg.QueueCapacity)
}

func TestGet_YamlMissingAPIURL(t *testing.T) {
	path := writeConfig(t, "dashboard_addr: 127.0.0.1:9999\n")

	_, err := Get([]string{"-config", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_url")
}

func TestGet_YamlBadDuration(t *testing.T) {
	path := writeConfig(t, `
api_url: https://api.orbital.dev/api/v1
poll_quote_interval: soon
`)

	_, err := Get([]string{"-config", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll_quote_interval")
}

func TestGetCredentials(t *testing.T) {
	t.Setenv("ORBITAL_EMAIL", "trader@orbital.dev")
	t.Setenv("ORBITAL_PASSWORD", "hunter2")

	creds, err := GetCredentials()
	require.NoError(t, err)
	assert.Equal(t, "trader@orbital.dev", creds.Email)
	assert.Equal(t, "hunter2", creds.Password)
}

func TestGetCredentials_MissingEnv(t *testing.T) {
	t.Setenv("ORBITAL_EMAIL", "")
	t.Setenv("ORBITAL_PASSWORD", "")
	os.Unsetenv("ORBITAL_EMAIL")
	os.Unsetenv("ORBITAL_PASSWORD")

	_, err := GetCredentials()
	require.Error(t, err)
}
