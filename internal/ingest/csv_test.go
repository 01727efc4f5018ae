package ingest

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trees.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTrees(t *testing.T) {
	t.Run("standard headers", func(t *testing.T) {
		path := writeCSV(t, "LONGITUDE,LATITUDE,COMMON_NAME\n-77.05,38.93,Yoshino Cherry\n-77.03,38.90,Chokecherry\n")

		records, err := LoadTrees(path)

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, -77.05, records[0].Longitude)
		assert.Equal(t, 38.93, records[0].Latitude)
		assert.Equal(t, "Yoshino Cherry", records[0].CommonName)
		assert.Equal(t, "Chokecherry", records[1].CommonName)
	})

	t.Run("X Y header aliases", func(t *testing.T) {
		path := writeCSV(t, "OBJECTID,X,Y,CMMN_NM\n1,-77.01,38.91,Red Maple\n")

		records, err := LoadTrees(path)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, -77.01, records[0].Longitude)
		assert.Equal(t, "Red Maple", records[0].CommonName)
	})

	t.Run("extra columns ignored", func(t *testing.T) {
		path := writeCSV(t, "DBH,COMMON_NAME,WARD,LATITUDE,LONGITUDE\n12,Black Cherry,6,38.88,-76.99\n")

		records, err := LoadTrees(path)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, -76.99, records[0].Longitude)
		assert.Equal(t, 38.88, records[0].Latitude)
		assert.Equal(t, "Black Cherry", records[0].CommonName)
	})

	t.Run("empty coordinate cell becomes NaN", func(t *testing.T) {
		path := writeCSV(t, "LONGITUDE,LATITUDE,COMMON_NAME\n,38.93,Yoshino Cherry\n")

		records, err := LoadTrees(path)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, math.IsNaN(records[0].Longitude))
		assert.Equal(t, 38.93, records[0].Latitude)
	})

	t.Run("unparsable coordinate becomes NaN", func(t *testing.T) {
		path := writeCSV(t, "LONGITUDE,LATITUDE,COMMON_NAME\nnot-a-number,38.93,Yoshino Cherry\n")

		records, err := LoadTrees(path)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, math.IsNaN(records[0].Longitude))
	})

	t.Run("short row tolerated", func(t *testing.T) {
		path := writeCSV(t, "LONGITUDE,LATITUDE,COMMON_NAME\n-77.05\n")

		records, err := LoadTrees(path)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, math.IsNaN(records[0].Latitude))
		assert.Empty(t, records[0].CommonName)
	})

	t.Run("header only", func(t *testing.T) {
		path := writeCSV(t, "LONGITUDE,LATITUDE,COMMON_NAME\n")

		records, err := LoadTrees(path)

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("missing common-name column", func(t *testing.T) {
		path := writeCSV(t, "LONGITUDE,LATITUDE,SPECIES\n-77.05,38.93,Yoshino Cherry\n")

		_, err := LoadTrees(path)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Contains(t, parseErr.Reason, "common-name")
	})

	t.Run("missing longitude column", func(t *testing.T) {
		path := writeCSV(t, "LATITUDE,COMMON_NAME\n38.93,Yoshino Cherry\n")

		_, err := LoadTrees(path)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Contains(t, parseErr.Reason, "longitude")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeCSV(t, "")

		_, err := LoadTrees(path)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTrees(filepath.Join(t.TempDir(), "nope.csv"))

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}
