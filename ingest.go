package topo

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultProgressInterval = 1000000
	ingestBatchSize         = 4096
	maxLineSize             = 1 << 20
)

var ingestRecords = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "topo_ingest_records_total",
	Help: "The total number of input records by result",
}, []string{"result"})

var (
	ingestRecordsApplied    = ingestRecords.WithLabelValues("applied")
	ingestRecordsMalformed  = ingestRecords.WithLabelValues("malformed")
	ingestRecordsOutOfRange = ingestRecords.WithLabelValues("out_of_range")
)

// IngestStats are statistics about an ingest.
type IngestStats struct {
	Records    int // Lines read.
	Applied    int
	Malformed  int
	OutOfRange int
	MinElev    int // Smallest applied elevation other than NoData, zero if none.
	MaxElev    int // Largest applied elevation other than NoData, zero if none.
}

// A ProgressFunc is called periodically during an ingest.
type ProgressFunc func(IngestStats)

type ingestOptions struct {
	progressInterval int
	progressFunc     ProgressFunc
	sourceCRS        string
}

// An IngestOption sets an option on an ingest.
type IngestOption func(*ingestOptions)

// WithProgressInterval sets the number of records between calls to the
// progress func.
func WithProgressInterval(progressInterval int) IngestOption {
	return func(o *ingestOptions) {
		o.progressInterval = progressInterval
	}
}

func WithProgressFunc(progressFunc ProgressFunc) IngestOption {
	return func(o *ingestOptions) {
		o.progressFunc = progressFunc
	}
}

// WithSourceCRS sets the CRS of the input coordinates. The first two fields of
// each line are passed to PROJ in the order they appear. The default is
// longitude and latitude in degrees.
func WithSourceCRS(sourceCRS string) IngestOption {
	return func(o *ingestOptions) {
		o.sourceCRS = sourceCRS
	}
}

// A record is a parsed input line.
type record struct {
	coord []float64
	elev  int16
}

// Ingest reads lines of "lon lat elev" from r and stores each elevation in g.
// Malformed lines, lines longer than 1 MiB, and records outside g are dropped.
// Later records overwrite earlier records at the same minute. An elevation of
// exactly NoData is applied, so it clears any earlier value at that minute.
func Ingest(ctx context.Context, r io.Reader, g *Grid, options ...IngestOption) (IngestStats, error) {
	o := ingestOptions{
		progressInterval: defaultProgressInterval,
	}
	for _, option := range options {
		option(&o)
	}

	var rp *reprojector
	if o.sourceCRS != "" {
		var err error
		rp, err = newReprojector(o.sourceCRS)
		if err != nil {
			return IngestStats{}, err
		}
	}

	i := &ingester{
		grid:        g,
		reprojector: rp,
		batch:       make([]record, 0, ingestBatchSize),
		stats: IngestStats{
			MinElev: math.MaxInt,
			MaxElev: math.MinInt,
		},
	}

	br := bufio.NewReaderSize(r, maxLineSize)
	for {
		line, tooLong, err := readLine(br)
		if len(line) == 0 && !tooLong && errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return i.result(), err
		}
		i.stats.Records++
		var rec record
		ok := false
		if !tooLong {
			rec, ok = parseRecord(string(line))
		}
		if ok {
			i.batch = append(i.batch, rec)
		} else {
			i.stats.Malformed++
			ingestRecordsMalformed.Inc()
		}
		if len(i.batch) == ingestBatchSize {
			if err := ctx.Err(); err != nil {
				return i.result(), err
			}
			if err := i.flush(); err != nil {
				return i.result(), err
			}
		}
		if o.progressFunc != nil && o.progressInterval > 0 && i.stats.Records%o.progressInterval == 0 {
			if err := i.flush(); err != nil {
				return i.result(), err
			}
			o.progressFunc(i.result())
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	if err := i.flush(); err != nil {
		return i.result(), err
	}
	return i.result(), nil
}

type ingester struct {
	grid        *Grid
	reprojector *reprojector
	batch       []record
	stats       IngestStats
}

// flush applies the pending batch of records to the grid.
func (i *ingester) flush() error {
	if len(i.batch) == 0 {
		return nil
	}
	if i.reprojector != nil {
		coords := make([][]float64, len(i.batch))
		for j := range i.batch {
			coords[j] = i.batch[j].coord
		}
		if err := i.reprojector.toLonLat(coords); err != nil {
			return err
		}
	}
	for _, rec := range i.batch {
		i.apply(rec)
	}
	i.batch = i.batch[:0]
	return nil
}

func (i *ingester) apply(rec record) {
	minuteCoord, ok := MinuteIndex(rec.coord[0], rec.coord[1])
	if !ok || !i.grid.Contains(minuteCoord) {
		i.stats.OutOfRange++
		ingestRecordsOutOfRange.Inc()
		return
	}
	i.grid.Set(minuteCoord, rec.elev)
	i.stats.Applied++
	ingestRecordsApplied.Inc()
	if rec.elev == NoData {
		return
	}
	i.stats.MinElev = min(i.stats.MinElev, int(rec.elev))
	i.stats.MaxElev = max(i.stats.MaxElev, int(rec.elev))
}

// result returns the stats so far, with the elevation range zeroed if no
// elevation has been applied.
func (i *ingester) result() IngestStats {
	stats := i.stats
	if stats.MinElev > stats.MaxElev {
		stats.MinElev = 0
		stats.MaxElev = 0
	}
	return stats
}

// parseRecord parses a line of "lon lat elev". Trailing fields are ignored.
// Elevations are rounded to the nearest metre and must fit in an int16.
func parseRecord(line string) (record, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return record{}, false
	}
	var values [3]float64
	for j := range values {
		value, err := strconv.ParseFloat(fields[j], 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return record{}, false
		}
		values[j] = value
	}
	elev := math.Round(values[2])
	if elev < math.MinInt16 || math.MaxInt16 < elev {
		return record{}, false
	}
	return record{
		coord: []float64{values[0], values[1]},
		elev:  int16(elev),
	}, true
}

// readLine returns the next line from r, including its newline. If the line is
// longer than r's buffer then the rest of it is discarded, tooLong is true, and
// line is not valid.
func readLine(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	line, err = r.ReadSlice('\n')
	for errors.Is(err, bufio.ErrBufferFull) {
		tooLong = true
		line, err = r.ReadSlice('\n')
	}
	return line, tooLong, err
}
