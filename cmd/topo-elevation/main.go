package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/decosects/topo"
)

func run() error {
	_ = godotenv.Load()

	dir := flag.String("dir", os.Getenv("TOPO_DIR"), "path to tile tree")
	layoutName := flag.String("layout", os.Getenv("TOPO_LAYOUT"), "tile layout (grid, column)")
	feet := flag.Bool("ft", false, "print elevation in feet")
	nearest := flag.Bool("nearest", false, "print the nearest sample instead of interpolating")
	flag.Parse()

	if flag.NArg() != 2 {
		return errors.New("syntax: topo-elevation latitude longitude")
	}
	lat, err := strconv.ParseFloat(flag.Arg(0), 64)
	if err != nil {
		return err
	}
	lon, err := strconv.ParseFloat(flag.Arg(1), 64)
	if err != nil {
		return err
	}
	if *dir == "" {
		*dir = "datums/topo"
	}
	layout, err := topo.ParseLayout(*layoutName)
	if err != nil {
		return err
	}

	fsys := os.DirFS(*dir)
	ctx := context.Background()
	var elevation float64
	// Column tiles hold one longitude per degree, so they cannot be
	// interpolated.
	if *nearest || layout == topo.LayoutColumn {
		var tileSet *topo.TileSet
		tileSet, err = topo.NewTileSet(fsys, topo.WithTileSetLayout(layout))
		if err != nil {
			return err
		}
		elevation, err = tileSet.Sample(ctx, lat, lon)
		if *feet {
			elevation *= topo.FeetPerMetre
		}
	} else {
		var es *topo.ElevationService
		es, err = topo.NewElevationService(fsys, topo.WithTileSetOptions(topo.WithTileSetLayout(layout)))
		if err != nil {
			return err
		}
		var elevations []float64
		if *feet {
			elevations, err = es.ElevationFt(ctx, [][]float64{{lon, lat}})
		} else {
			elevations, err = es.Elevation(ctx, [][]float64{{lon, lat}})
		}
		if err == nil {
			elevation = elevations[0]
		}
	}
	if err != nil {
		return err
	}
	fmt.Println(elevation)

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
