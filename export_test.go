package topo_test

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/decosects/topo"
)

func ingestAndExport(t *testing.T, input string, options ...topo.ExportOption) string {
	t.Helper()
	g := topo.NewGrid(topo.WithGridLatitudes(41, 43))
	_, err := topo.Ingest(t.Context(), strings.NewReader(input), g)
	assert.NoError(t, err)
	dir := t.TempDir()
	assert.NoError(t, topo.Export(t.Context(), g, dir, options...))
	return dir
}

func readTile(t *testing.T, dir string, c topo.TileCoord, layout topo.Layout) []int16 {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(topo.TilePath(c))))
	assert.NoError(t, err)
	samples, err := topo.DecodeTile(data, layout)
	assert.NoError(t, err)
	return samples
}

func TestExportRoundTrip(t *testing.T) {
	dir := ingestAndExport(t, "-71.5 42.0 50\n-72 41.5 812\n185 42.25 -4\n-71.5 91 1\n")

	samples := readTile(t, dir, topo.TileCoord{Lat: 42, Lon: -72}, topo.LayoutGrid)
	assert.Equal(t, int16(50), samples[0*60+30])

	samples = readTile(t, dir, topo.TileCoord{Lat: 41, Lon: -72}, topo.LayoutGrid)
	assert.Equal(t, int16(812), samples[30*60+0])

	// 185 wraps to -175.
	samples = readTile(t, dir, topo.TileCoord{Lat: 42, Lon: -175}, topo.LayoutGrid)
	assert.Equal(t, int16(-4), samples[15*60+0])

	// Untouched cells are NoData.
	samples = readTile(t, dir, topo.TileCoord{Lat: 41, Lon: 0}, topo.LayoutGrid)
	for _, sample := range samples {
		assert.Equal(t, topo.NoData, sample)
	}
}

func TestExportTree(t *testing.T) {
	for _, tc := range []struct {
		layout   topo.Layout
		expected int64
	}{
		{layout: topo.LayoutGrid, expected: 7200},
		{layout: topo.LayoutColumn, expected: 120},
	} {
		t.Run(tc.layout.String(), func(t *testing.T) {
			var written int
			dir := ingestAndExport(t, "-71.5 42.0 50\n",
				topo.WithLayout(tc.layout),
				topo.WithTileWrittenFunc(func(topo.TileCoord, string) {
					written++
				}),
			)
			assert.Equal(t, 2*360, written)

			files := 0
			dirs := make(map[string]bool)
			assert.NoError(t, filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
				assert.NoError(t, err)
				if path == dir {
					return nil
				}
				if d.IsDir() {
					dirs[d.Name()] = true
					return nil
				}
				info, err := d.Info()
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, info.Size())
				files++
				return nil
			}))
			assert.Equal(t, 2*360, files)
			assert.Equal(t, map[string]bool{"41": true, "42": true}, dirs)

			for _, name := range []string{"41/-180", "42/179", "42/-72", "42/0"} {
				_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
				assert.NoError(t, err)
			}
		})
	}
}

func TestExportColumn(t *testing.T) {
	dir := ingestAndExport(t, "-72 42.5 321\n-71.5 42.5 5\n", topo.WithLayout(topo.LayoutColumn))
	samples := readTile(t, dir, topo.TileCoord{Lat: 42, Lon: -72}, topo.LayoutColumn)
	for i, sample := range samples {
		expected := topo.NoData
		if i == 30 {
			expected = 321
		}
		assert.Equal(t, expected, sample)
	}
}

func TestExportLatitudes(t *testing.T) {
	dir := ingestAndExport(t, "", topo.WithLatitudes(42, 50))
	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "42", entries[0].Name())
}

func TestExportIdempotent(t *testing.T) {
	input := "-71.5 42.0 50\n-72 41.5 812\n"
	dir1 := ingestAndExport(t, input+input)
	dir2 := ingestAndExport(t, input)
	for _, name := range []string{"42/-72", "41/-72", "41/-71"} {
		data1, err := os.ReadFile(filepath.Join(dir1, filepath.FromSlash(name)))
		assert.NoError(t, err)
		data2, err := os.ReadFile(filepath.Join(dir2, filepath.FromSlash(name)))
		assert.NoError(t, err)
		assert.True(t, bytes.Equal(data1, data2))
	}
}

func TestExportCreateError(t *testing.T) {
	g := topo.NewGrid(topo.WithGridLatitudes(41, 42))
	dir := t.TempDir()
	// A regular file where the latitude directory should be.
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "41"), nil, 0o666))
	err := topo.Export(t.Context(), g, dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), filepath.Join(dir, "41", "-180"))
}

func TestExportUnknownLayout(t *testing.T) {
	g := topo.NewGrid(topo.WithGridLatitudes(41, 42))
	err := topo.Export(t.Context(), g, t.TempDir(), topo.WithLayout(topo.Layout(7)))
	assert.IsError(t, err, topo.ErrUnknownLayout)
}
