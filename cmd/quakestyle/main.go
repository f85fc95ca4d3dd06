// Command quakestyle applies the map's earthquake styling to a local USGS
// GeoJSON file and prints the depth legend, without running the service.
//
// Usage:
//
//	quakestyle style --in all_week.geojson --out styled.geojson
//	quakestyle legend [--json]
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "quakestyle",
		Usage:  "Style earthquake GeoJSON by depth and magnitude",
		Writer: w,
		Commands: []*cli.Command{
			newStyleCommand(),
			newLegendCommand(),
		},
	}
}
