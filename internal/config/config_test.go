package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("SCANLOG_DB", "")
	t.Setenv("SCANLOG_REMOTE_URL", "")
	t.Setenv("SCANLOG_TIMEOUT", "")
	t.Setenv("SCANLOG_TOKEN", "")
	t.Setenv("SCANLOG_EXPORT_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dataHome, "scanlog", "scanlog.db"), cfg.DBPath)
	assert.Equal(t, DefaultRemoteURL, cfg.RemoteURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultCSVTimeLayout, cfg.CSVTimeLayout)
	assert.Equal(t, DefaultExportFileName, cfg.ExportFile)
	assert.Empty(t, cfg.Token)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SCANLOG_DB", "/tmp/custom.db")
	t.Setenv("SCANLOG_REMOTE_URL", "https://docs.example.com/api")
	t.Setenv("SCANLOG_TIMEOUT", "5s")
	t.Setenv("SCANLOG_TOKEN", "secret")
	t.Setenv("SCANLOG_EXPORT_FILE", "scans.csv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "https://docs.example.com/api", cfg.RemoteURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, "scans.csv", cfg.ExportFile)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad timeout", "SCANLOG_TIMEOUT", "soon"},
		{"negative timeout", "SCANLOG_TIMEOUT", "-1s"},
		{"non-http remote", "SCANLOG_REMOTE_URL", "ftp://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/data/scan.db", ExpandHome("~/data/scan.db"))
	assert.Equal(t, "/abs/scan.db", ExpandHome("/abs/scan.db"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}
