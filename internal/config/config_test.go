package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Ticker = "TSCO.L"
	cfg.OutDir = "data/tesco"
	cfg.BaseURL = "http://localhost:9999"

	path := filepath.Join(t.TempDir(), "yfin.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Ticker, got.Ticker)
	assert.Equal(t, cfg.OutDir, got.OutDir)
	assert.Equal(t, cfg.Start, got.Start)
	assert.Equal(t, cfg.End, got.End)
	assert.Equal(t, cfg.Timeout, got.Timeout)
	assert.Equal(t, cfg.LogLevel, got.LogLevel)
	assert.Equal(t, cfg.BaseURL, got.BaseURL)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "SMWH.L", cfg.Ticker)
	assert.Equal(t, "data/whsmith", cfg.OutDir)
	assert.Equal(t, "2022-01-01", cfg.Start)
	assert.Equal(t, "2025-12-31", cfg.End)
	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.BaseURL)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDateRange(t *testing.T) {
	cfg := Default()
	start, end, err := cfg.DateRange()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestDateRangeInvalid(t *testing.T) {
	cfg := Default()
	cfg.Start = "01/01/2022"
	_, _, err := cfg.DateRange()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing start date")

	cfg = Default()
	cfg.End = "2021-12-31"
	_, _, err = cfg.DateRange()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before start date")
}
