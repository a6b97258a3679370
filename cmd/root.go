/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "feedhub",
		Usage: "A store for RSS feeds with a JSON API and RSS output",
		Description: `A small service that keeps a set of syndication feeds and
		republishes them as RSS 2.0 documents.

		Feeds and entries are created through a JSON HTTP API and kept in a
		single JSON file. Entries older than the history window are removed
		by a background sweep. Every feed, all feeds combined and search
		results can be fetched as RSS.

		Flags can generally be set via environment variables, e.g.:

		--storage-file => FEEDHUB_STORAGE_FILE=feeds.json
		--port => FEEDHUB_PORT=8080
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional TOML configuration file",
				EnvVars: []string{"FEEDHUB_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (trace, debug, info, warn, error)",
				EnvVars: []string{"FEEDHUB_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Shorthand for --log-level debug",
				EnvVars: []string{"FEEDHUB_DEBUG"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "Log format (text or json)",
				EnvVars: []string{"FEEDHUB_LOG_FORMAT"},
			},
		},
		Before: configureLogging,
		Commands: []*cli.Command{
			serveCmd(),
			tidyCmd(),
			renderCmd(),
			statusCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

// Execute runs the application with the process arguments.
func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.WithFields(log.Fields{
			"error": err,
		}).Fatal("Exiting")
	}
}

func configureLogging(ctx *cli.Context) error {
	log.SetOutput(os.Stderr)

	switch strings.ToLower(ctx.String("log-format")) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", ctx.String("log-format"))
	}

	level, err := log.ParseLevel(ctx.String("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if (ctx.Bool("debug") || legacyDebug()) && level < log.DebugLevel {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	return nil
}

// legacyDebug reads the DEBUG variable of older deployments. Only "true" turns
// debug logging on, any other value is ignored rather than rejected.
func legacyDebug() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("DEBUG")), "true")
}
