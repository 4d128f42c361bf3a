package topo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var tilesWritten = promauto.NewCounter(prometheus.CounterOpts{
	Name: "topo_export_tiles_written_total",
	Help: "The total number of tile files written",
})

// A TileWrittenFunc is called after each tile file is written.
type TileWrittenFunc func(c TileCoord, filename string)

type exportOptions struct {
	layout          Layout
	minLat          int
	maxLat          int
	tileWrittenFunc TileWrittenFunc
}

// An ExportOption sets an option on an export.
type ExportOption func(*exportOptions)

// WithLayout sets the tile layout.
func WithLayout(layout Layout) ExportOption {
	return func(o *exportOptions) {
		o.layout = layout
	}
}

// WithLatitudes restricts the export to the whole-degree latitude band
// [minLat, maxLat). The band is further restricted to the grid's.
func WithLatitudes(minLat, maxLat int) ExportOption {
	return func(o *exportOptions) {
		o.minLat = minLat
		o.maxLat = maxLat
	}
}

func WithTileWrittenFunc(tileWrittenFunc TileWrittenFunc) ExportOption {
	return func(o *exportOptions) {
		o.tileWrittenFunc = tileWrittenFunc
	}
}

// Export writes g as a tile tree rooted at dir. It creates one directory per
// whole degree of latitude and one file per whole degree of longitude. The
// first error aborts the export.
func Export(ctx context.Context, g *Grid, dir string, options ...ExportOption) error {
	o := exportOptions{
		layout: LayoutGrid,
		minLat: -90,
		maxLat: 90,
	}
	for _, option := range options {
		option(&o)
	}
	if o.layout != LayoutGrid && o.layout != LayoutColumn {
		return fmt.Errorf("%s: %w", o.layout, ErrUnknownLayout)
	}
	gridMinLat, gridMaxLat := g.Latitudes()
	minLat, maxLat := max(o.minLat, gridMinLat), min(o.maxLat, gridMaxLat)

	for lat := minLat; lat < maxLat; lat++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		latDir := filepath.Join(dir, strconv.Itoa(lat))
		if err := os.Mkdir(latDir, 0o777); err != nil && !os.IsExist(err) {
			return err
		}
		for lon := -180; lon < 180; lon++ {
			tileCoord := TileCoord{Lat: lat, Lon: lon}
			filename := filepath.Join(dir, filepath.FromSlash(TilePath(tileCoord)))
			if err := writeTile(filename, EncodeTile(g, tileCoord, o.layout)); err != nil {
				return err
			}
			tilesWritten.Inc()
			if o.tileWrittenFunc != nil {
				o.tileWrittenFunc(tileCoord, filename)
			}
		}
	}
	return nil
}

// writeTile creates filename and writes data to it.
func writeTile(filename string, data []byte) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", filename, err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("%s: %w", filename, closeErr)
		}
	}()
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}
