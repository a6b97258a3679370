/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"feedhub/feeds"
	"feedhub/models"

	"github.com/urfave/cli/v2"
)

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Print a feed as RSS",
		Description: `Prints one stored feed, or all feeds combined, as an RSS 2.0 document.

Useful to publish the feeds as static files without running the server.`,
		Flags: append(storeFlags(),
			&cli.StringFlag{
				Name:  "feed",
				Usage: "Id of the feed to render. All feeds are combined when empty",
			},
			&cli.StringFlag{
				Name:  "link",
				Value: "http://localhost:5000/",
				Usage: "Channel link of the combined feed",
			},
		),
		Action: func(ctx *cli.Context) error {
			_, store, err := openStore(ctx)
			if err != nil {
				return err
			}

			var feed models.Feed
			if id := ctx.String("feed"); id != "" {
				var ok bool
				feed, ok = store.GetFeed(id)
				if !ok {
					return fmt.Errorf("feed %q not found", id)
				}
			} else {
				feed = feeds.Aggregate(
					feeds.AllFeedsInfo(store.Config().AggregateTitle, ctx.String("link")),
					store.ListFeeds(),
				)
			}

			data, err := feeds.Render(feed)
			if err != nil {
				return err
			}
			_, err = ctx.App.Writer.Write(data)
			return err
		},
	}
}
