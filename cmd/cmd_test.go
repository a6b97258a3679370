package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"feedhub/config"
	"feedhub/db"
	"feedhub/models"

	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func pubDate(t time.Time) string {
	return t.UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT")
}

func seedStore(t *testing.T) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feeds.json")
	storeConfig := config.Default().StoreConfig()
	storeConfig.Path = path
	store := db.NewStore(storeConfig)

	now := time.Now()
	id, err := store.CreateFeed(models.FeedSpec{
		FeedID:      "tech",
		Title:       "Tech",
		Link:        "https://tech.example.com",
		Description: "Tech news",
		Entries: []models.EntrySpec{
			{Title: "Old", Link: "l", Description: "d", PubDate: pubDate(now.Add(-40 * 24 * time.Hour))},
			{Title: "New", Link: "l", Description: "d", PubDate: pubDate(now.Add(-24 * time.Hour))},
		},
	})
	require.NoError(t, err)
	return path, id
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := RootApp()
	app.Writer = &out
	err := app.Run(append([]string{"feedhub", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestStatusCommand(t *testing.T) {
	path, _ := seedStore(t)

	out, err := run(t, "status", "--storage-file", path)
	require.NoError(t, err)

	var status models.Status
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, "online", status.Status)
	assert.Equal(t, 1, status.FeedsCount)
	assert.Equal(t, 2, status.EntriesCount)
	assert.Equal(t, path, status.StorageFile)
}

func TestRenderCommand(t *testing.T) {
	path, id := seedStore(t)

	out, err := run(t, "render", "--storage-file", path, "--aggregate-title", "Everything")
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(out)
	require.NoError(t, err)
	assert.Equal(t, "Everything", parsed.Title)
	require.Len(t, parsed.Items, 2)
	assert.Equal(t, "[Tech] New", parsed.Items[0].Title)

	out, err = run(t, "render", "--storage-file", path, "--feed", id)
	require.NoError(t, err)
	parsed, err = gofeed.NewParser().ParseString(out)
	require.NoError(t, err)
	assert.Equal(t, "Tech", parsed.Title)
	assert.Equal(t, "New", parsed.Items[0].Title)

	_, err = run(t, "render", "--storage-file", path, "--feed", "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestTidyCommand(t *testing.T) {
	path, id := seedStore(t)

	out, err := run(t, "tidy", "--storage-file", path)
	require.NoError(t, err)
	assert.Equal(t, "Removed 1 expired entries\n", out)

	feed, ok := db.NewStore(db.StoreConfig{Path: path, HistoryDays: 30, MaxEntriesPerFeed: 100}).GetFeed(id)
	require.True(t, ok)
	require.Len(t, feed.Entries, 1)
	assert.Equal(t, "New", feed.Entries[0].Title)

	out, err = run(t, "tidy", "--storage-file", path, "--history-days", "365")
	require.NoError(t, err)
	assert.Equal(t, "Removed 0 expired entries\n", out)
}

func TestInvalidFlags(t *testing.T) {
	path, _ := seedStore(t)

	_, err := run(t, "status", "--storage-file", path, "--history-days", "0")
	assert.ErrorContains(t, err, "store.history_days")

	_, err = run(t, "--log-format", "xml", "status", "--storage-file", path)
	assert.ErrorContains(t, err, "unknown log format")
}

// configApp runs loadConfig the way the commands do and hands back the result.
func configApp(t *testing.T, args ...string) *config.TomlConfig {
	t.Helper()
	var loaded *config.TomlConfig
	app := &cli.App{
		Name: "feedhub",
		Flags: append(storeFlags(),
			&cli.StringFlag{Name: "config"},
			&cli.IntFlag{Name: "port", EnvVars: []string{"FEEDHUB_PORT", "PORT"}},
		),
		Action: func(ctx *cli.Context) error {
			var err error
			loaded, err = loadConfig(ctx)
			return err
		},
	}
	require.NoError(t, app.Run(append([]string{"feedhub"}, args...)))
	return loaded
}

func TestLoadConfigPrecedence(t *testing.T) {
	for _, key := range []string{
		"FEEDHUB_HISTORY_DAYS", "HISTORY_DAYS",
		"FEEDHUB_MAX_ENTRIES_PER_FEED", "MAX_ENTRIES_PER_FEED",
		"FEEDHUB_STORAGE_FILE", "RSS_STORAGE_FILE",
		"FEEDHUB_GENERAL_FEED_TITLE", "GENERAL_FEED_TITLE",
		"FEEDHUB_PORT", "PORT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfgPath := filepath.Join(t.TempDir(), "feedhub.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(strings.Join([]string{
		"[store]",
		"history_days = 7",
		"max_entries_per_feed = 20",
		"[server]",
		"port = 8080",
	}, "\n")), 0o644))

	// Defaults only
	cfg := configApp(t)
	assert.Equal(t, config.Default(), cfg)

	// File over defaults
	cfg = configApp(t, "--config", cfgPath)
	assert.Equal(t, 7, cfg.Store.HistoryDays)
	assert.Equal(t, 20, cfg.Store.MaxEntriesPerFeed)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "feeds.json", cfg.Store.Path)

	// Environment over file
	t.Setenv("HISTORY_DAYS", "14")
	t.Setenv("PORT", "9000")
	cfg = configApp(t, "--config", cfgPath)
	assert.Equal(t, 14, cfg.Store.HistoryDays)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Store.MaxEntriesPerFeed)

	// Flags over environment
	cfg = configApp(t, "--config", cfgPath, "--history-days", "3", "--storage-file", "/tmp/other.json")
	assert.Equal(t, 3, cfg.Store.HistoryDays)
	assert.Equal(t, "/tmp/other.json", cfg.Store.Path)
}

func TestRenderSingleFeedSkipsAggregate(t *testing.T) {
	path, id := seedStore(t)

	storeConfig := config.Default().StoreConfig()
	storeConfig.Path = path
	_, err := db.NewStore(storeConfig).CreateFeed(models.FeedSpec{
		FeedID:      "sports",
		Title:       "Sports",
		Link:        "https://sports.example.com",
		Description: "Sports news",
		Entries: []models.EntrySpec{
			{Title: "Match", Link: "l", Description: "d", PubDate: pubDate(time.Now())},
		},
	})
	require.NoError(t, err)

	out, err := run(t, "render", "--storage-file", path, "--feed", id, "--aggregate-title", "Everything")
	require.NoError(t, err)
	assert.NotContains(t, out, "Everything")
	assert.NotContains(t, out, "Match")

	parsed, err := gofeed.NewParser().ParseString(out)
	require.NoError(t, err)
	assert.Equal(t, "Tech", parsed.Title)
	require.Len(t, parsed.Items, 2)
	for _, item := range parsed.Items {
		assert.False(t, strings.HasPrefix(item.Title, "["), item.Title)
	}
}

func TestLegacyDebugVariable(t *testing.T) {
	path, _ := seedStore(t)
	defer log.SetLevel(log.GetLevel())

	for _, value := range []string{"no", "yes", "1", ""} {
		t.Setenv("DEBUG", value)
		_, err := run(t, "status", "--storage-file", path)
		require.NoError(t, err, value)
		assert.Equal(t, log.ErrorLevel, log.GetLevel(), value)
	}

	for _, value := range []string{"true", "TRUE", " True "} {
		t.Setenv("DEBUG", value)
		_, err := run(t, "status", "--storage-file", path)
		require.NoError(t, err, value)
		assert.Equal(t, log.DebugLevel, log.GetLevel(), value)
	}
}

func TestDebugFlagStillStrict(t *testing.T) {
	path, _ := seedStore(t)
	defer log.SetLevel(log.GetLevel())

	t.Setenv("FEEDHUB_DEBUG", "yes")
	_, err := run(t, "status", "--storage-file", path)
	assert.Error(t, err)
}
