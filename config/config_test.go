package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"feedhub/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feedhub.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, db.StoreConfig{
		Path:              "feeds.json",
		HistoryDays:       30,
		MaxEntriesPerFeed: 100,
		AggregateTitle:    "All Feeds",
	}, c.StoreConfig())
	assert.Equal(t, db.TidyConfig{
		Interval:      24 * time.Hour,
		RetryInterval: time.Hour,
	}, c.TidyConfig())
	assert.Equal(t, ":5000", c.Address())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[store]
path = "/var/lib/feedhub/feeds.json"
history_days = 7

[tidy]
interval = "6h"

[server]
host = "127.0.0.1"
port = 8080
`)

	c, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "/var/lib/feedhub/feeds.json", c.Store.Path)
	assert.Equal(t, 7, c.Store.HistoryDays)
	assert.Equal(t, 6*time.Hour, c.Tidy.Interval.Duration)
	assert.Equal(t, "127.0.0.1:8080", c.Address())

	// Keys not in the file keep their defaults.
	assert.Equal(t, 100, c.Store.MaxEntriesPerFeed)
	assert.Equal(t, "All Feeds", c.Store.AggregateTitle)
	assert.Equal(t, time.Hour, c.Tidy.RetryInterval.Duration)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid toml", content: "[store\npath = "},
		{name: "invalid duration", content: "[tidy]\ninterval = \"soon\""},
		{name: "wrong type", content: "[store]\nhistory_days = \"thirty\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadConfigUnknownKeys(t *testing.T) {
	c, err := LoadConfig(writeConfig(t, "[store]\ncolour = \"blue\"\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TomlConfig)
		want   string
	}{
		{name: "empty path", mutate: func(c *TomlConfig) { c.Store.Path = " " }, want: "store.path"},
		{name: "zero history", mutate: func(c *TomlConfig) { c.Store.HistoryDays = 0 }, want: "store.history_days"},
		{name: "negative entries", mutate: func(c *TomlConfig) { c.Store.MaxEntriesPerFeed = -1 }, want: "store.max_entries_per_feed"},
		{name: "zero interval", mutate: func(c *TomlConfig) { c.Tidy.Interval.Duration = 0 }, want: "tidy.interval"},
		{name: "zero retry", mutate: func(c *TomlConfig) { c.Tidy.RetryInterval.Duration = 0 }, want: "tidy.retry_interval"},
		{name: "port out of range", mutate: func(c *TomlConfig) { c.Server.Port = 70000 }, want: "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	c := Default()
	c.Store.HistoryDays = 0
	c.Server.Port = 0
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.history_days")
	assert.Contains(t, err.Error(), "server.port")
}
