/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func tidyCmd() *cli.Command {
	return &cli.Command{
		Name:  "tidy",
		Usage: "Remove expired entries from the storage file",
		Description: `Runs one retention sweep against the storage file.

		Removes entries published before the history window (30 days by default).
		Can be run as a cron job when the server runs with a long tidy interval.`,
		Flags: storeFlags(),
		Action: func(ctx *cli.Context) error {
			cfg, store, err := openStore(ctx)
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"path":        cfg.Store.Path,
				"historyDays": cfg.Store.HistoryDays,
			}).Info("Tidying feeds")

			removed, err := store.Tidy()
			if err != nil {
				return err
			}

			fmt.Fprintf(ctx.App.Writer, "Removed %d expired entries\n", removed)
			return nil
		},
	}
}
