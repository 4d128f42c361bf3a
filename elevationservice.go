package topo

import (
	"context"
	"fmt"
	"io/fs"
	"math"
)

// FeetPerMetre converts metres to feet.
const FeetPerMetre = 3.28084

// An ElevationService returns interpolated elevations from a tile tree.
type ElevationService struct {
	tileSet     *TileSet
	reprojector *reprojector
}

type elevationServiceOptions struct {
	sourceCRS      string
	tileSetOptions []TileSetOption
}

// An ElevationServiceOption sets an option on an ElevationService.
type ElevationServiceOption func(*elevationServiceOptions)

// WithServiceSourceCRS sets the CRS of query coordinates. The default is
// longitude and latitude in degrees.
func WithServiceSourceCRS(sourceCRS string) ElevationServiceOption {
	return func(o *elevationServiceOptions) {
		o.sourceCRS = sourceCRS
	}
}

func WithTileSetOptions(tileSetOptions ...TileSetOption) ElevationServiceOption {
	return func(o *elevationServiceOptions) {
		o.tileSetOptions = tileSetOptions
	}
}

// NewElevationService returns a new ElevationService over the tile tree in
// fsys. Interpolation needs neighbouring longitudes, so tiles must use
// LayoutGrid.
func NewElevationService(fsys fs.FS, options ...ElevationServiceOption) (*ElevationService, error) {
	var o elevationServiceOptions
	for _, option := range options {
		option(&o)
	}
	tileSet, err := NewTileSet(fsys, o.tileSetOptions...)
	if err != nil {
		return nil, err
	}
	if layout := tileSet.Layout(); layout != LayoutGrid {
		return nil, fmt.Errorf("%s: %w", layout, ErrUnsupportedLayout)
	}
	s := &ElevationService{
		tileSet: tileSet,
	}
	if o.sourceCRS != "" {
		s.reprojector, err = newReprojector(o.sourceCRS)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Elevation returns the elevations in metres at coords, which are longitude
// and latitude pairs, or pairs in the axis order of the service's source CRS
// if it has one.
func (s *ElevationService) Elevation(ctx context.Context, coords [][]float64) ([]float64, error) {
	lonLats := cloneCoords(coords)
	if s.reprojector != nil {
		if err := s.reprojector.toLonLat(lonLats); err != nil {
			return nil, err
		}
	}
	for _, lonLat := range lonLats {
		lonLat[0] = wrapLonMinutes((lonLat[0] + 180) * MinutesPerDegree)
		lonLat[1] = (lonLat[1] + 90) * MinutesPerDegree
	}
	return InterpolateBilinear(ctx, s.tileSet, lonLats)
}

// ElevationFt returns the elevations in feet at coords.
func (s *ElevationService) ElevationFt(ctx context.Context, coords [][]float64) ([]float64, error) {
	elevations, err := s.Elevation(ctx, coords)
	if err != nil {
		return nil, err
	}
	for i := range elevations {
		elevations[i] *= FeetPerMetre
	}
	return elevations, nil
}

// TileSet returns the tile set underlying s.
func (s *ElevationService) TileSet() *TileSet {
	return s.tileSet
}

// wrapLonMinutes wraps x into [0, LonMinutes).
func wrapLonMinutes(x float64) float64 {
	x = math.Mod(x, LonMinutes)
	if x < 0 {
		x += LonMinutes
	}
	return x
}
