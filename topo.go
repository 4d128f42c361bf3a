// Package topo builds and reads tiled 1-arcminute global elevation grids.
//
// A tile tree has one directory per whole degree of latitude and one file per
// whole degree of longitude within it, for example datums/topo/42/-72. Each
// file holds little-endian int16 elevations in metres, with NoData marking
// cells without data.
package topo

import (
	"context"
	"math"
)

const (
	MinutesPerDegree = 60
	LatMinutes       = 180 * MinutesPerDegree
	LonMinutes       = 360 * MinutesPerDegree
)

// NoData is the sentinel elevation for cells without data. Its bit pattern is
// 0x8000.
const NoData int16 = math.MinInt16

// A Coord is a coordinate in absolute arcminutes, X east from longitude -180
// and Y north from latitude -90.
type Coord struct {
	X int
	Y int
}

// A MinuteCoord is an index into a Grid.
type MinuteCoord struct {
	Lat int
	Lon int
}

// A TileCoord is the whole-degree south-west corner of a tile.
type TileCoord struct {
	Lat int
	Lon int
}

type Raster interface {
	Samples(ctx context.Context, coords []Coord) ([]float64, error)
	Scale() (int, int)
}

// LatIndex returns the minute index of lat and whether it is inside the grid.
func LatIndex(lat float64) (int, bool) {
	latIndex := int(math.Floor((lat+90)*MinutesPerDegree + 0.5))
	if latIndex < 0 || LatMinutes <= latIndex {
		return 0, false
	}
	return latIndex, true
}

// LonIndex returns the minute index of lon, wrapped around the globe.
func LonIndex(lon float64) int {
	lonIndex := int(math.Floor((lon+180)*MinutesPerDegree+0.5)) % LonMinutes
	if lonIndex < 0 {
		lonIndex += LonMinutes
	}
	return lonIndex
}

// MinuteIndex returns the grid index of lon, lat. It returns false if lat is
// outside the grid.
func MinuteIndex(lon, lat float64) (MinuteCoord, bool) {
	latIndex, ok := LatIndex(lat)
	if !ok {
		return MinuteCoord{}, false
	}
	return MinuteCoord{
		Lat: latIndex,
		Lon: LonIndex(lon),
	}, true
}

// TileCoord returns the tile containing c.
func (c MinuteCoord) TileCoord() TileCoord {
	return TileCoord{
		Lat: c.Lat/MinutesPerDegree - 90,
		Lon: c.Lon/MinutesPerDegree - 180,
	}
}

// Valid returns whether c is a tile of the global grid.
func (c TileCoord) Valid() bool {
	return -90 <= c.Lat && c.Lat < 90 && -180 <= c.Lon && c.Lon < 180
}

// MinuteCoord returns the grid index of the south-west corner of c.
func (c TileCoord) MinuteCoord() MinuteCoord {
	return MinuteCoord{
		Lat: (c.Lat + 90) * MinutesPerDegree,
		Lon: (c.Lon + 180) * MinutesPerDegree,
	}
}
