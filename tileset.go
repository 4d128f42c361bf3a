package topo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	missingTileCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "topo_missing_tile_cache_hits_total",
		Help: "The total number of hits on the missing tile cache",
	})
	missingTileCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "topo_missing_tile_cache_misses_total",
		Help: "The total number of misses on the missing tile cache",
	})
	tileCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "topo_tile_cache_hits_total",
		Help: "The total number of hits on the tile cache",
	})
	tileCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "topo_tile_cache_misses_total",
		Help: "The total number of misses on the tile cache",
	})
	tileCacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "topo_tile_cache_evictions_total",
		Help: "The total number of evictions from the tile cache",
	})
)

// A TileSet is a tile tree opened for reading.
type TileSet struct {
	mutex        sync.Mutex
	fsys         fs.FS
	layout       Layout
	cacheSize    int
	missingTiles sync.Map
	tileCache    *lru.Cache[TileCoord, []int16]
}

// A TileSetOption sets an option on a TileSet.
type TileSetOption func(*TileSet)

// NewTileSet returns a new TileSet reading tiles from fsys, which should be
// the root of a tile tree.
func NewTileSet(fsys fs.FS, options ...TileSetOption) (*TileSet, error) {
	s := &TileSet{
		fsys:      fsys,
		layout:    LayoutGrid,
		cacheSize: 64,
	}
	for _, option := range options {
		option(s)
	}
	if s.layout != LayoutGrid && s.layout != LayoutColumn {
		return nil, fmt.Errorf("%s: %w", s.layout, ErrUnknownLayout)
	}

	var err error
	s.tileCache, err = lru.New[TileCoord, []int16](s.cacheSize)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func WithCacheSize(cacheSize int) TileSetOption {
	return func(s *TileSet) {
		s.cacheSize = cacheSize
	}
}

func WithTileSetLayout(layout Layout) TileSetOption {
	return func(s *TileSet) {
		s.layout = layout
	}
}

// Layout returns the layout of s's tiles.
func (s *TileSet) Layout() Layout {
	return s.layout
}

// Sample returns the elevation in metres at lat, lon, rounded to the nearest
// arcminute. Missing samples are represented by NaN.
func (s *TileSet) Sample(ctx context.Context, lat, lon float64) (float64, error) {
	latIndex, ok := LatIndex(lat)
	if !ok {
		return math.NaN(), nil
	}
	samples, err := s.Samples(ctx, []Coord{{X: LonIndex(lon), Y: latIndex}})
	if err != nil {
		return 0, err
	}
	return samples[0], nil
}

// Samples returns the samples at coords. Missing samples are represented by
// NaNs.
func (s *TileSet) Samples(ctx context.Context, coords []Coord) ([]float64, error) {
	samples := make([]float64, len(coords))

	// Group indexes by tile coord.
	indexesByTileCoord := make(map[TileCoord][]int)
	for index, coord := range coords {
		tileCoord, ok := s.tileCoord(coord)
		if !ok {
			samples[index] = math.NaN()
			continue
		}
		indexesByTileCoord[tileCoord] = append(indexesByTileCoord[tileCoord], index)
	}

	// Populate samples one tile at a time.
	for tileCoord, indexes := range indexesByTileCoord {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tileSamples, err := s.getTileCached(tileCoord)
		if err != nil {
			return nil, err
		}
		for _, index := range indexes {
			samples[index] = s.tileSample(tileSamples, coords[index])
		}
	}

	return samples, nil
}

// Scale returns s's scale in arcminutes.
func (s *TileSet) Scale() (int, int) {
	return 1, 1
}

// tileCoord returns the tile containing coord, which is wrapped in longitude.
func (s *TileSet) tileCoord(coord Coord) (TileCoord, bool) {
	if coord.Y < 0 || LatMinutes <= coord.Y {
		return TileCoord{}, false
	}
	return MinuteCoord{Lat: coord.Y, Lon: wrapLonMinute(coord.X)}.TileCoord(), true
}

// tileSample returns the sample from tileSamples at coord.
func (s *TileSet) tileSample(tileSamples []int16, coord Coord) float64 {
	if tileSamples == nil {
		return math.NaN()
	}
	r := coord.Y % MinutesPerDegree
	c := wrapLonMinute(coord.X) % MinutesPerDegree
	columns := s.layout.Columns()
	if c >= columns {
		return math.NaN()
	}
	sample := tileSamples[r*columns+c]
	if sample == NoData {
		return math.NaN()
	}
	return float64(sample)
}

// getTile reads and decodes the tile at tileCoord. Missing tiles are returned
// as nil.
func (s *TileSet) getTile(tileCoord TileCoord) ([]int16, error) {
	filename := TilePath(tileCoord)
	switch data, err := fs.ReadFile(s.fsys, filename); {
	case errors.Is(err, fs.ErrNotExist):
		s.missingTiles.Store(tileCoord, struct{}{})
		missingTileCacheMisses.Inc()
		return nil, nil
	case err != nil:
		return nil, err
	default:
		tileSamples, err := DecodeTile(data, s.layout)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		return tileSamples, nil
	}
}

// getTileCached returns the tile at tileCoord, using the cache if possible.
func (s *TileSet) getTileCached(tileCoord TileCoord) ([]int16, error) {
	if _, ok := s.missingTiles.Load(tileCoord); ok {
		missingTileCacheHits.Inc()
		return nil, nil
	}

	if tileSamples, ok := s.tileCache.Get(tileCoord); ok {
		tileCacheHits.Inc()
		return tileSamples, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.missingTiles.Load(tileCoord); ok {
		missingTileCacheHits.Inc()
		return nil, nil
	}

	if tileSamples, ok := s.tileCache.Get(tileCoord); ok {
		tileCacheHits.Inc()
		return tileSamples, nil
	}

	tileCacheMisses.Inc()

	tileSamples, err := s.getTile(tileCoord)
	if err != nil || tileSamples == nil {
		return nil, err
	}

	if eviction := s.tileCache.Add(tileCoord, tileSamples); eviction {
		tileCacheEvictions.Inc()
	}

	return tileSamples, nil
}

func wrapLonMinute(x int) int {
	x %= LonMinutes
	if x < 0 {
		x += LonMinutes
	}
	return x
}
