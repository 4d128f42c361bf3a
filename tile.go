package topo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"path"
	"strconv"
)

var (
	ErrTileSize          = errors.New("wrong tile size")
	ErrUnknownLayout     = errors.New("unknown layout")
	ErrUnsupportedLayout = errors.New("unsupported layout")
)

// A Layout is the arrangement of samples in a tile file.
type Layout int

const (
	// LayoutGrid tiles hold 60 rows of 60 samples. Row r is arcminute r of
	// latitude north of the tile's south edge and column c is arcminute c of
	// longitude east of its west edge.
	LayoutGrid Layout = iota
	// LayoutColumn tiles hold 60 samples of increasing latitude at the tile's
	// western longitude.
	LayoutColumn
)

// ParseLayout parses a layout name.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "grid", "":
		return LayoutGrid, nil
	case "column":
		return LayoutColumn, nil
	default:
		return 0, fmt.Errorf("%s: %w", s, ErrUnknownLayout)
	}
}

func (l Layout) String() string {
	switch l {
	case LayoutGrid:
		return "grid"
	case LayoutColumn:
		return "column"
	default:
		return "Layout(" + strconv.Itoa(int(l)) + ")"
	}
}

// Columns returns the number of longitude samples in each row of l.
func (l Layout) Columns() int {
	if l == LayoutColumn {
		return 1
	}
	return MinutesPerDegree
}

// SampleCount returns the number of samples in a tile of layout l.
func (l Layout) SampleCount() int {
	return MinutesPerDegree * l.Columns()
}

// Size returns the size in bytes of a tile of layout l.
func (l Layout) Size() int {
	return 2 * l.SampleCount()
}

// TilePath returns the slash-separated path of the tile at c relative to the
// root of a tile tree.
func TilePath(c TileCoord) string {
	return path.Join(strconv.Itoa(c.Lat), strconv.Itoa(c.Lon))
}

// EncodeTile returns the encoded tile at c from g.
func EncodeTile(g *Grid, c TileCoord, layout Layout) []byte {
	columns := layout.Columns()
	data := make([]byte, 0, layout.Size())
	lonIndex := LonIndex(float64(c.Lon))
	for latMinute := 0; latMinute < MinutesPerDegree; latMinute++ {
		latIndex, _ := LatIndex(float64(c.Lat) + float64(latMinute)/MinutesPerDegree)
		for _, sample := range g.Row(MinuteCoord{Lat: latIndex, Lon: lonIndex}, columns) {
			data = binary.LittleEndian.AppendUint16(data, uint16(sample))
		}
	}
	return data
}

// DecodeTile decodes the samples in data.
func DecodeTile(data []byte, layout Layout) ([]int16, error) {
	if len(data) != layout.Size() {
		return nil, fmt.Errorf("%d bytes, expected %d: %w", len(data), layout.Size(), ErrTileSize)
	}
	samples := make([]int16, layout.SampleCount())
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[2*i : 2*i+2]))
	}
	return samples, nil
}
