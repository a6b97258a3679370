/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"feedhub/config"
	"feedhub/db"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// storeFlags are shared by every command that opens the store. Defaults live
// in config.Default, so the flags only override when set.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "storage-file",
			Aliases: []string{"f"},
			Usage:   "JSON file the feeds are stored in (default: feeds.json)",
			EnvVars: []string{"FEEDHUB_STORAGE_FILE", "RSS_STORAGE_FILE"},
		},
		&cli.IntFlag{
			Name:    "history-days",
			Usage:   "Entries older than this many days are removed (default: 30)",
			EnvVars: []string{"FEEDHUB_HISTORY_DAYS", "HISTORY_DAYS"},
		},
		&cli.IntFlag{
			Name:    "max-entries",
			Usage:   "Maximum number of entries kept per feed (default: 100)",
			EnvVars: []string{"FEEDHUB_MAX_ENTRIES_PER_FEED", "MAX_ENTRIES_PER_FEED"},
		},
		&cli.StringFlag{
			Name:    "aggregate-title",
			Usage:   "Title of the feed combining all feeds (default: All Feeds)",
			EnvVars: []string{"FEEDHUB_GENERAL_FEED_TITLE", "GENERAL_FEED_TITLE"},
		},
	}
}

// loadConfig layers defaults, the optional config file and explicitly set flags.
func loadConfig(ctx *cli.Context) (*config.TomlConfig, error) {
	cfg := config.Default()

	if path := ctx.String("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		log.WithFields(log.Fields{
			"path": path,
		}).Info("Loaded config file")
	}

	if ctx.IsSet("storage-file") {
		cfg.Store.Path = ctx.String("storage-file")
	}
	if ctx.IsSet("history-days") {
		cfg.Store.HistoryDays = ctx.Int("history-days")
	}
	if ctx.IsSet("max-entries") {
		cfg.Store.MaxEntriesPerFeed = ctx.Int("max-entries")
	}
	if ctx.IsSet("aggregate-title") {
		cfg.Store.AggregateTitle = ctx.String("aggregate-title")
	}
	if ctx.IsSet("host") {
		cfg.Server.Host = ctx.String("host")
	}
	if ctx.IsSet("port") {
		cfg.Server.Port = ctx.Int("port")
	}
	if ctx.IsSet("tidy-interval") {
		cfg.Tidy.Interval.Duration = ctx.Duration("tidy-interval")
	}
	if ctx.IsSet("tidy-retry-interval") {
		cfg.Tidy.RetryInterval.Duration = ctx.Duration("tidy-retry-interval")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore loads the configuration and the store it describes.
func openStore(ctx *cli.Context) (*config.TomlConfig, *db.Store, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db.NewStore(cfg.StoreConfig()), nil
}
