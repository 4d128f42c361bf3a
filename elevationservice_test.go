package topo_test

import (
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/decosects/topo"
)

func TestElevationService_Elevation(t *testing.T) {
	fsys := newTestFS(t, topo.LayoutGrid, map[topo.MinuteCoord]int16{
		{Lat: 7920, Lon: 6510}: 100,
		{Lat: 7920, Lon: 6511}: 200,
		{Lat: 7921, Lon: 6510}: 100,
		{Lat: 7921, Lon: 6511}: 200,
	})
	es, err := topo.NewElevationService(fsys)
	assert.NoError(t, err)

	for _, tc := range []struct {
		name     string
		coord    []float64
		expected float64
	}{
		{
			name:     "exact",
			coord:    []float64{-71.5, 42},
			expected: 100,
		},
		{
			name:     "half_minute_east",
			coord:    []float64{-71.5 + 1.0/120, 42},
			expected: 150,
		},
		{
			name:     "half_minute_north_east",
			coord:    []float64{-71.5 + 1.0/120, 42 + 1.0/120},
			expected: 150,
		},
		{
			name:     "wrapped",
			coord:    []float64{-71.5 + 360, 42},
			expected: 100,
		},
		{
			name:     "missing",
			coord:    []float64{0, 0},
			expected: math.NaN(),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := es.Elevation(t.Context(), [][]float64{tc.coord})
			assert.NoError(t, err)
			assert.Equal(t, 1, len(actual))
			if math.IsNaN(tc.expected) {
				assert.True(t, math.IsNaN(actual[0]))
			} else {
				assert.True(t, math.Abs(tc.expected-actual[0]) < 1e-6, "%f", actual[0])
			}
		})
	}

	actualFt, err := es.ElevationFt(t.Context(), [][]float64{{-71.5, 42}})
	assert.NoError(t, err)
	assert.Equal(t, []float64{100 * topo.FeetPerMetre}, actualFt)
}

func TestElevationServiceSourceCRS(t *testing.T) {
	// Surround the point so that reprojection rounding cannot reach a missing
	// sample.
	records := make(map[topo.MinuteCoord]int16)
	for lat := 7919; lat <= 7921; lat++ {
		for lon := 6509; lon <= 6511; lon++ {
			records[topo.MinuteCoord{Lat: lat, Lon: lon}] = 100
		}
	}
	fsys := newTestFS(t, topo.LayoutGrid, records)
	es, err := topo.NewElevationService(fsys, topo.WithServiceSourceCRS("epsg:4326"))
	assert.NoError(t, err)

	coords := [][]float64{{42, -71.5}}
	actual, err := es.Elevation(t.Context(), coords)
	assert.NoError(t, err)
	assert.True(t, math.Abs(100-actual[0]) < 1e-6, "%f", actual[0])
	assert.Equal(t, [][]float64{{42, -71.5}}, coords)
}

func TestElevationServiceColumnLayout(t *testing.T) {
	fsys := newTestFS(t, topo.LayoutColumn, map[topo.MinuteCoord]int16{
		{Lat: 7920, Lon: 6480}: 100,
	})
	_, err := topo.NewElevationService(fsys, topo.WithTileSetOptions(topo.WithTileSetLayout(topo.LayoutColumn)))
	assert.IsError(t, err, topo.ErrUnsupportedLayout)

	tileSet, err := topo.NewTileSet(fsys, topo.WithTileSetLayout(topo.LayoutColumn))
	assert.NoError(t, err)
	assert.Equal(t, topo.LayoutColumn, tileSet.Layout())
	actual, err := tileSet.Sample(t.Context(), 42, -72)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, actual)
}
