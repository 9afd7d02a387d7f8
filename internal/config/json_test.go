package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRawJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseJSON_Success(t *testing.T) {
	path := writeRawJSON(t, `{
		"app": {
			"kdf": {"time": 2, "memory": 4096, "threads": 1},
			"unlock_attempts_per_minute": 20,
			"unlock_burst": 4,
			"version": "0.9.0"
		},
		"storage": {"db": {"driver": "bolt", "dsn": "vault.bolt"}},
		"server": {"http_address": "127.0.0.1:8800", "request_timeout": "20s"},
		"adapter": {"http_address": "http://10.0.0.5:8000/api", "request_timeout": "4s"},
		"workers": {"sync_interval": "30m"}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(2), cfg.App.KDFTime)
	assert.Equal(t, uint32(4096), cfg.App.KDFMemory)
	assert.Equal(t, uint8(1), cfg.App.KDFThreads)
	assert.Equal(t, 20, cfg.App.UnlockAttemptsPerMinute)
	assert.Equal(t, 4, cfg.App.UnlockBurst)
	assert.Equal(t, "0.9.0", cfg.App.Version)
	assert.Equal(t, "bolt", cfg.Storage.DB.Driver)
	assert.Equal(t, "vault.bolt", cfg.Storage.DB.DSN)
	assert.Equal(t, "127.0.0.1:8800", cfg.Server.HTTPAddress)
	assert.Equal(t, 20*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "http://10.0.0.5:8000/api", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 4*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Workers.SyncInterval)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	_, err := parseJSON(writeRawJSON(t, `{"app": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_InvalidDuration(t *testing.T) {
	_, err := parseJSON(writeRawJSON(t, `{"workers": {"sync_interval": "often"}}`))
	require.Error(t, err)
}

func TestParseJSON_NumericDuration(t *testing.T) {
	cfg, err := parseJSON(writeRawJSON(t, `{"adapter": {"request_timeout": 1000000000}}`))
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Adapter.RequestTimeout)
}

func TestParseJSON_EmptyObject(t *testing.T) {
	cfg, err := parseJSON(writeRawJSON(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
