package ingest

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBoundaryArchive builds a zip containing a two-polygon shapefile set
// (.shp/.shx/.dbf) with a NAME attribute, mimicking an open-data
// neighborhood export.
func writeBoundaryArchive(t *testing.T, nameField string) string {
	t.Helper()
	dir := t.TempDir()

	shpPath := filepath.Join(dir, "neighborhoods.shp")
	writer, err := shp.Create(shpPath, shp.POLYGON)
	require.NoError(t, err)

	writer.SetFields([]shp.Field{shp.StringField(nameField, 40)})

	polys := []struct {
		name   string
		points [][]shp.Point
	}{
		{"Columbia Heights", [][]shp.Point{{
			{X: -77.04, Y: 38.92}, {X: -77.02, Y: 38.92},
			{X: -77.02, Y: 38.94}, {X: -77.04, Y: 38.94},
			{X: -77.04, Y: 38.92},
		}}},
		{"Capitol Hill", [][]shp.Point{{
			{X: -77.01, Y: 38.88}, {X: -76.98, Y: 38.88},
			{X: -76.98, Y: 38.90}, {X: -77.01, Y: 38.90},
			{X: -77.01, Y: 38.88},
		}}},
	}
	for i, p := range polys {
		line := shp.NewPolyLine(p.points)
		writer.Write((*shp.Polygon)(line))
		writer.WriteAttribute(i, 0, p.name)
	}
	writer.Close()

	archivePath := filepath.Join(dir, "neighborhoods.zip")
	out, err := os.Create(archivePath)
	require.NoError(t, err)
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		data, err := os.ReadFile(filepath.Join(dir, "neighborhoods"+ext))
		require.NoError(t, err)
		w, err := zw.Create("neighborhoods" + ext)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return archivePath
}

func TestLoadBoundaries(t *testing.T) {
	t.Run("reads named polygons", func(t *testing.T) {
		archive := writeBoundaryArchive(t, "NAME")

		boundaries, err := LoadBoundaries(archive)

		require.NoError(t, err)
		require.Len(t, boundaries, 2)
		assert.Equal(t, "Columbia Heights", boundaries[0].Name)
		assert.Equal(t, "Capitol Hill", boundaries[1].Name)

		require.Len(t, boundaries[0].Parts, 1)
		ring := boundaries[0].Parts[0]
		require.Len(t, ring, 5)
		assert.Equal(t, -77.04, ring[0].Lon)
		assert.Equal(t, 38.92, ring[0].Lat)
	})

	t.Run("alternate name attribute", func(t *testing.T) {
		archive := writeBoundaryArchive(t, "NBH_NAMES")

		boundaries, err := LoadBoundaries(archive)

		require.NoError(t, err)
		require.Len(t, boundaries, 2)
		assert.Equal(t, "Columbia Heights", boundaries[0].Name)
	})

	t.Run("missing archive", func(t *testing.T) {
		_, err := LoadBoundaries(filepath.Join(t.TempDir(), "nope.zip"))
		require.Error(t, err)
	})

	t.Run("corrupt archive", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk.zip")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

		_, err := LoadBoundaries(path)
		require.Error(t, err)
	})

	t.Run("archive without shapefile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.zip")
		out, err := os.Create(path)
		require.NoError(t, err)
		zw := zip.NewWriter(out)
		w, err := zw.Create("readme.txt")
		require.NoError(t, err)
		_, err = w.Write([]byte("no shapes here"))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		require.NoError(t, out.Close())

		_, err = LoadBoundaries(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no .shp member")
	})
}

func TestSplitParts(t *testing.T) {
	// Two rings in one flat vertex array: Parts marks each ring's start.
	line := shp.NewPolyLine([][]shp.Point{
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}},
		{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 5}},
	})

	parts := splitParts((*shp.Polygon)(line))

	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 4)
	assert.Len(t, parts[1], 4)
	assert.Equal(t, 5.0, parts[1][0].Lon)
	assert.Equal(t, 5.0, parts[1][0].Lat)
}
