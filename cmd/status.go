/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"
)

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:        "status",
		Usage:       "Print the store status as JSON",
		Description: `Loads the storage file and prints feed and entry counts with the active configuration.`,
		Flags:       storeFlags(),
		Action: func(ctx *cli.Context) error {
			_, store, err := openStore(ctx)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(store.Status(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, string(data))
			return nil
		},
	}
}
