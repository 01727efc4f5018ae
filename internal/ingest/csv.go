// Package ingest reads the two startup inputs: the street-tree inventory CSV
// and the zipped neighborhood-boundary shapefile set.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"cherrymap/internal/domain"
)

// ParseError is a fatal ingest failure: the source is unreadable or a
// required column is absent. There is no partial-dataset recovery; callers
// abort the run.
type ParseError struct {
	Source string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Source, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Column header aliases accepted for the three required columns. Export
// vintages of the inventory differ: older dumps use X/Y, newer ones spell
// the names out, and the common-name column has been both CMMN_NM and
// COMMON_NAME. Matching is case-insensitive.
var (
	longitudeAliases  = []string{"longitude", "long", "lon", "x"}
	latitudeAliases   = []string{"latitude", "lat", "y"}
	commonNameAliases = []string{"common_name", "common name", "cmmn_nm", "commonname"}
)

// LoadTrees parses a delimited tabular file into raw tree records. The first
// row must be a header naming a longitude, latitude, and common-name column
// (aliases accepted); a missing column is a *ParseError. Cells that fail to
// parse as numbers produce NaN coordinates on that record — cleaning them is
// the normalizer's job, not an ingest failure.
func LoadTrees(path string) ([]domain.TreeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Source: path, Reason: "open tree inventory", Err: err}
	}
	defer f.Close()

	return readTrees(f, path)
}

func readTrees(r io.Reader, source string) ([]domain.TreeRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated; missing cells become null fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Source: source, Reason: "empty file, no header row"}
	}
	if err != nil {
		return nil, &ParseError{Source: source, Reason: "read header", Err: err}
	}

	lonIdx, err := findColumn(header, longitudeAliases)
	if err != nil {
		return nil, &ParseError{Source: source, Reason: "no longitude column", Err: err}
	}
	latIdx, err := findColumn(header, latitudeAliases)
	if err != nil {
		return nil, &ParseError{Source: source, Reason: "no latitude column", Err: err}
	}
	nameIdx, err := findColumn(header, commonNameAliases)
	if err != nil {
		return nil, &ParseError{Source: source, Reason: "no common-name column", Err: err}
	}

	var records []domain.TreeRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, &ParseError{Source: source, Reason: "read row", Err: err}
		}
		records = append(records, domain.TreeRecord{
			Longitude:  cellFloat(row, lonIdx),
			Latitude:   cellFloat(row, latIdx),
			CommonName: cellString(row, nameIdx),
		})
	}
}

// findColumn locates the first header cell matching any alias,
// case-insensitively.
func findColumn(header []string, aliases []string) (int, error) {
	for _, alias := range aliases {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), alias) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("none of %v found in header %v", aliases, header)
}

// cellFloat parses the cell at idx, returning NaN for missing, empty, or
// unparsable values.
func cellFloat(row []string, idx int) float64 {
	if idx >= len(row) {
		return math.NaN()
	}
	s := strings.TrimSpace(row[idx])
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func cellString(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
