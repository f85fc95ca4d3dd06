package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/urfave/cli/v3"
)

func newLegendCommand() *cli.Command {
	return &cli.Command{
		Name:  "legend",
		Usage: "Print the depth legend",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print entries as JSON",
			},
		},
		Action: legendAction,
	}
}

func legendAction(_ context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	entries := domain.LegendEntries()

	if cmd.Bool("json") {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEPTH (km)\tCOLOR")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.Label, e.Color)
	}
	return tw.Flush()
}
