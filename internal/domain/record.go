package domain

import (
	"math"
	"strings"
	"time"
)

// TreeRecord is one row of the raw street-tree inventory. Coordinates are
// NaN when the source cell was empty or unparsable; CommonName is empty when
// the cell was blank. Columns beyond these three are dropped at ingest.
type TreeRecord struct {
	Longitude  float64
	Latitude   float64
	CommonName string
}

// Valid reports whether the record has a usable coordinate pair and name.
func (r TreeRecord) Valid() bool {
	return !math.IsNaN(r.Longitude) &&
		!math.IsNaN(r.Latitude) &&
		strings.TrimSpace(r.CommonName) != ""
}

// CherryRecord is a tree record that passed the cherry-name filter,
// projected down to the fields the renderers consume. Immutable after the
// correction pass.
type CherryRecord struct {
	Longitude    float64   `json:"longitude"`
	Latitude     float64   `json:"latitude"`
	CultivarName string    `json:"cultivar_name"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// Point is a WGS-84 longitude/latitude vertex.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Boundary is one named neighborhood polygon. Parts holds the vertex rings:
// index 0 is the outer ring, any further rings are holes or disjoint pieces
// of a multi-part polygon.
type Boundary struct {
	Name  string
	Parts [][]Point
}

// BoundaryCollection is the full set of neighborhood polygons, read once at
// startup and shared read-only by every renderer.
type BoundaryCollection []Boundary
