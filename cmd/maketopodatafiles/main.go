// Command maketopodatafiles converts a global lon/lat/elevation text stream,
// such as ETOPO1_Ice_g_int.xyz, into a tree of tile files.
//
//	zcat ETOPO1_Ice_g_int.xyz.gz | maketopodatafiles -dir datums/topo
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/decosects/topo"
	"github.com/decosects/topo/internal/logging"
)

func run() error {
	_ = godotenv.Load() // OK if missing.

	dir := flag.String("dir", envOr("TOPO_DIR", "datums/topo"), "output tile tree")
	layoutName := flag.String("layout", os.Getenv("TOPO_LAYOUT"), "tile layout (grid, column)")
	sourceCRS := flag.String("source-crs", os.Getenv("TOPO_SOURCE_CRS"), "CRS of input coordinates")
	progressInterval := flag.Int("progress-interval", 1000000, "records between progress lines")
	pushgatewayURL := flag.String("pushgateway-url", os.Getenv("TOPO_PUSHGATEWAY_URL"), "Prometheus Pushgateway URL")
	logLevel := flag.String("log-level", os.Getenv("LOG_LEVEL"), "log level")
	logFormat := flag.String("log-format", os.Getenv("LOG_FORMAT"), "log format (text, json)")
	flag.Parse()

	logger := logging.Setup(os.Stderr, *logLevel, *logFormat)

	layout, err := topo.ParseLayout(*layoutName)
	if err != nil {
		return err
	}

	var r io.Reader
	switch flag.NArg() {
	case 0:
		r = os.Stdin
	case 1:
		file, err := os.Open(flag.Arg(0))
		if err != nil {
			return err
		}
		defer file.Close()
		r = file
		if strings.HasSuffix(flag.Arg(0), ".gz") {
			gzipReader, err := gzip.NewReader(file)
			if err != nil {
				return fmt.Errorf("%s: %w", flag.Arg(0), err)
			}
			defer gzipReader.Close()
			r = gzipReader
		}
	default:
		return errors.New("syntax: maketopodatafiles [flags] [input.xyz[.gz]]")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := os.MkdirAll(*dir, 0o777); err != nil {
		return err
	}

	grid := topo.NewGrid()

	ingestOptions := []topo.IngestOption{
		topo.WithProgressInterval(*progressInterval),
		topo.WithProgressFunc(func(stats topo.IngestStats) {
			logger.Info("ingest progress", "records", stats.Records, "total", topo.LatMinutes*topo.LonMinutes)
		}),
	}
	if *sourceCRS != "" {
		ingestOptions = append(ingestOptions, topo.WithSourceCRS(*sourceCRS))
	}
	stats, err := topo.Ingest(ctx, r, grid, ingestOptions...)
	if err != nil {
		return err
	}
	logger.Info("elev range",
		"min", stats.MinElev,
		"max", stats.MaxElev,
		"records", stats.Records,
		"applied", stats.Applied,
		"malformed", stats.Malformed,
		"out_of_range", stats.OutOfRange,
	)

	tiles := 0
	if err := topo.Export(ctx, grid, *dir,
		topo.WithLayout(layout),
		topo.WithTileWrittenFunc(func(c topo.TileCoord, filename string) {
			tiles++
			logger.Debug("wrote tile", "filename", filename)
		}),
	); err != nil {
		return err
	}
	logger.Info("export complete", "dir", *dir, "layout", layout, "tiles", tiles)

	if *pushgatewayURL != "" {
		if err := push.New(*pushgatewayURL, "maketopodatafiles").Gatherer(prometheus.DefaultGatherer).Push(); err != nil {
			logger.Warn("push metrics", "url", *pushgatewayURL, "err", err)
		}
	}

	return nil
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
