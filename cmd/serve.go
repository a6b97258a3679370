/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"feedhub/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// serveCmd represents the serve command
func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the feed API",
		Description: `Starts the HTTP server and the retention sweep.

Loads the feeds from the storage file, serves the JSON and RSS API on the
configured port and removes entries older than the history window once a day.
Stops gracefully on SIGINT or SIGTERM.`,
		Flags: append(storeFlags(),
			&cli.StringFlag{
				Name:    "host",
				Usage:   "Host or address to listen on (default: all interfaces)",
				EnvVars: []string{"FEEDHUB_HOST"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (default: 5000)",
				EnvVars: []string{"FEEDHUB_PORT", "PORT"},
			},
			&cli.StringFlag{
				Name:    "allow-origins",
				Value:   "*",
				Usage:   "Comma separated list of origins allowed by CORS",
				EnvVars: []string{"FEEDHUB_ALLOW_ORIGINS"},
			},
			&cli.DurationFlag{
				Name:    "tidy-interval",
				Usage:   "Time between retention sweeps (default: 24h)",
				EnvVars: []string{"FEEDHUB_TIDY_INTERVAL"},
			},
			&cli.DurationFlag{
				Name:    "tidy-retry-interval",
				Usage:   "Time to wait after a failed retention sweep (default: 1h)",
				EnvVars: []string{"FEEDHUB_TIDY_RETRY_INTERVAL"},
			},
		),
		Action: func(ctx *cli.Context) error {
			cfg, store, err := openStore(ctx)
			if err != nil {
				return err
			}

			broadcaster := server.NewBroadcaster()
			store.SetListener(broadcaster)

			app := server.Server(&server.ServerConfig{
				Store:        store,
				Broadcaster:  broadcaster,
				AllowOrigins: ctx.String("allow-origins"),
			})

			// Graceful shutdown
			sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			tidyCtx, cancelTidy := context.WithCancel(sigCtx)
			defer cancelTidy()

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.RunTidy(tidyCtx, cfg.TidyConfig())
			}()

			listenErr := make(chan error, 1)
			go func() {
				log.WithFields(log.Fields{
					"address": cfg.Address(),
				}).Info("Starting server")
				listenErr <- app.Listen(cfg.Address())
			}()

			select {
			case <-sigCtx.Done():
				log.Info("Gracefully shutting down")
			case err = <-listenErr:
				log.WithFields(log.Fields{
					"error": err,
				}).Error("Server stopped")
			}

			store.SetListener(nil)
			log.WithFields(log.Fields{
				"clients": broadcaster.ClientCount(),
			}).Info("Closing event streams")
			broadcaster.Shutdown()
			if shutdownErr := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout.Duration); shutdownErr != nil {
				log.WithFields(log.Fields{
					"error": shutdownErr,
				}).Error("Error shutting down server")
			}

			cancelTidy()
			wg.Wait()

			log.Info("Done")
			return err
		},
	}
}
