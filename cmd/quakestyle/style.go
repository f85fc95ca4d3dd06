package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/urfave/cli/v3"
)

var (
	inFlag = &cli.StringFlag{
		Name:     "in",
		Aliases:  []string{"i"},
		Usage:    "USGS earthquake GeoJSON file to style",
		Required: true,
	}
	outFlag = &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "write styled GeoJSON here instead of stdout",
	}
)

func newStyleCommand() *cli.Command {
	return &cli.Command{
		Name:   "style",
		Usage:  "Attach marker style and popup to every earthquake",
		Flags:  []cli.Flag{inFlag, outFlag},
		Action: styleAction,
	}
}

func styleAction(_ context.Context, cmd *cli.Command) error {
	data, err := os.ReadFile(cmd.String(inFlag.Name))
	if err != nil {
		return err
	}

	features, skipped, err := domain.ParseEarthquakes(data)
	if err != nil {
		return err
	}
	for _, sk := range skipped {
		fmt.Fprintf(os.Stderr, "skipping feature %d (%s): %v\n", sk.Index, sk.ID, sk.Reason)
	}

	out, err := json.MarshalIndent(domain.StyledEarthquakes(features), "", "  ")
	if err != nil {
		return fmt.Errorf("encode styled features: %w", err)
	}
	out = append(out, '\n')

	if path := cmd.String(outFlag.Name); path != "" {
		return os.WriteFile(path, out, 0o644)
	}
	_, err = cmd.Root().Writer.Write(out)
	return err
}
