package topo

import (
	"github.com/twpayne/go-proj/v10"
)

// A reprojector transforms coordinates from a source CRS to longitude and
// latitude in EPSG:4326.
type reprojector struct {
	pj *proj.PJ
}

func newReprojector(sourceCRS string) (*reprojector, error) {
	pj, err := proj.NewCRSToCRS(sourceCRS, "epsg:4326", nil)
	if err != nil {
		return nil, err
	}
	return &reprojector{
		pj: pj,
	}, nil
}

// toLonLat transforms coords in place. EPSG:4326 has latitude first so the
// result is flipped back to longitude first.
func (r *reprojector) toLonLat(coords [][]float64) error {
	if err := r.pj.ForwardFloat64Slices(coords); err != nil {
		return err
	}
	flipCoords(coords)
	return nil
}

func cloneCoords(coords [][]float64) [][]float64 {
	clonedCoordsFlat := make([]float64, 2*len(coords))
	clonedCoords := make([][]float64, len(coords))
	for i, coord := range coords {
		copy(clonedCoordsFlat[2*i:2*i+2], coord)
		clonedCoords[i] = clonedCoordsFlat[2*i : 2*i+2]
	}
	return clonedCoords
}

func flipCoords(coords [][]float64) {
	for i, coord := range coords {
		coords[i][0], coords[i][1] = coord[1], coord[0]
	}
}
