package topo

import (
	"fmt"
)

// A Grid is an elevation grid at 1-arcminute resolution. By default it covers
// the whole globe.
type Grid struct {
	minLat  int
	maxLat  int
	samples []int16
}

// A GridOption sets an option on a Grid.
type GridOption func(*Grid)

// NewGrid returns a new Grid with every sample set to NoData.
func NewGrid(options ...GridOption) *Grid {
	g := &Grid{
		minLat: -90,
		maxLat: 90,
	}
	for _, option := range options {
		option(g)
	}
	samples := make([]int16, (g.maxLat-g.minLat)*MinutesPerDegree*LonMinutes)
	for i := range samples {
		samples[i] = NoData
	}
	g.samples = samples
	return g
}

// WithGridLatitudes restricts g to the whole-degree latitude band [minLat,
// maxLat). Records outside the band are dropped on ingest.
func WithGridLatitudes(minLat, maxLat int) GridOption {
	return func(g *Grid) {
		g.minLat = max(minLat, -90)
		g.maxLat = min(maxLat, 90)
		if g.maxLat < g.minLat {
			g.maxLat = g.minLat
		}
	}
}

// Latitudes returns the whole-degree latitude band [minLat, maxLat) covered by
// g.
func (g *Grid) Latitudes() (int, int) {
	return g.minLat, g.maxLat
}

// Contains returns whether c is inside g.
func (g *Grid) Contains(c MinuteCoord) bool {
	return (g.minLat+90)*MinutesPerDegree <= c.Lat && c.Lat < (g.maxLat+90)*MinutesPerDegree &&
		0 <= c.Lon && c.Lon < LonMinutes
}

// At returns the sample at c.
func (g *Grid) At(c MinuteCoord) int16 {
	return g.samples[g.offset(c)]
}

// Set sets the sample at c to elev.
func (g *Grid) Set(c MinuteCoord, elev int16) {
	g.samples[g.offset(c)] = elev
}

// Row returns the n samples starting at c. The returned slice aliases g.
func (g *Grid) Row(c MinuteCoord, n int) []int16 {
	offset := g.offset(c)
	if n < 0 || c.Lon+n > LonMinutes {
		panic(fmt.Sprintf("topo: row %d+%d out of range", c.Lon, n))
	}
	return g.samples[offset : offset+n]
}

func (g *Grid) offset(c MinuteCoord) int {
	if !g.Contains(c) {
		panic(fmt.Sprintf("topo: minute coord %+v out of range", c))
	}
	return (c.Lat-(g.minLat+90)*MinutesPerDegree)*LonMinutes + c.Lon
}
