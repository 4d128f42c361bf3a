package topo_test

import (
	"encoding/binary"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/decosects/topo"
)

func TestParseLayout(t *testing.T) {
	for _, tc := range []struct {
		s        string
		expected topo.Layout
	}{
		{s: "", expected: topo.LayoutGrid},
		{s: "grid", expected: topo.LayoutGrid},
		{s: "column", expected: topo.LayoutColumn},
	} {
		actual, err := topo.ParseLayout(tc.s)
		assert.NoError(t, err)
		assert.Equal(t, tc.expected, actual)
	}

	_, err := topo.ParseLayout("strip")
	assert.IsError(t, err, topo.ErrUnknownLayout)
}

func TestLayout(t *testing.T) {
	assert.Equal(t, 7200, topo.LayoutGrid.Size())
	assert.Equal(t, 120, topo.LayoutColumn.Size())
	assert.Equal(t, "grid", topo.LayoutGrid.String())
	assert.Equal(t, "column", topo.LayoutColumn.String())
	assert.Equal(t, "Layout(7)", topo.Layout(7).String())
}

func TestTilePath(t *testing.T) {
	assert.Equal(t, "42/-72", topo.TilePath(topo.TileCoord{Lat: 42, Lon: -72}))
	assert.Equal(t, "-90/-180", topo.TilePath(topo.TileCoord{Lat: -90, Lon: -180}))
	assert.Equal(t, "0/0", topo.TilePath(topo.TileCoord{}))
}

func TestEncodeTile(t *testing.T) {
	g := topo.NewGrid(topo.WithGridLatitudes(42, 43))
	g.Set(topo.MinuteCoord{Lat: 7920, Lon: 6510}, 50)   // 42.0, -71.5.
	g.Set(topo.MinuteCoord{Lat: 7921, Lon: 6480}, 1234) // 42.016667, -72.0.
	g.Set(topo.MinuteCoord{Lat: 7979, Lon: 6539}, -7)   // 42.983333, -71.016667.
	g.Set(topo.MinuteCoord{Lat: 7920, Lon: 6540}, 99)   // 42.0, -71.0, next tile.

	tileCoord := topo.TileCoord{Lat: 42, Lon: -72}

	t.Run("grid", func(t *testing.T) {
		data := topo.EncodeTile(g, tileCoord, topo.LayoutGrid)
		assert.Equal(t, 7200, len(data))
		samples, err := topo.DecodeTile(data, topo.LayoutGrid)
		assert.NoError(t, err)
		for i, sample := range samples {
			var expected int16
			switch i {
			case 0*60 + 30:
				expected = 50
			case 1*60 + 0:
				expected = 1234
			case 59*60 + 59:
				expected = -7
			default:
				expected = topo.NoData
			}
			assert.Equal(t, expected, sample)
		}
		assert.Equal(t, uint16(0x8000), binary.LittleEndian.Uint16(data[0:2]))
		assert.Equal(t, uint16(50), binary.LittleEndian.Uint16(data[60:62]))
	})

	t.Run("column", func(t *testing.T) {
		data := topo.EncodeTile(g, tileCoord, topo.LayoutColumn)
		assert.Equal(t, 120, len(data))
		samples, err := topo.DecodeTile(data, topo.LayoutColumn)
		assert.NoError(t, err)
		for i, sample := range samples {
			expected := topo.NoData
			if i == 1 {
				expected = 1234
			}
			assert.Equal(t, expected, sample)
		}
	})
}

func TestDecodeTileWrongSize(t *testing.T) {
	_, err := topo.DecodeTile(make([]byte, 120), topo.LayoutGrid)
	assert.IsError(t, err, topo.ErrTileSize)
	_, err = topo.DecodeTile(make([]byte, 7200), topo.LayoutColumn)
	assert.IsError(t, err, topo.ErrTileSize)
}
