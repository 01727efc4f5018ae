// Package render builds the output artifacts: the GeoJSON feature
// collection, the static chart image, and the interactive map page. The
// heavy lifting (drawing, tiles, clustering) belongs to the chart and map
// collaborators; this package only shapes data for them.
package render

import (
	"cherrymap/internal/domain"
)

// FeatureCollection is a standard GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature with geometry and properties.
type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

// Geometry holds a GeoJSON geometry. Coordinates is [lon, lat] for a Point
// and a ring array for a Polygon, so it stays untyped here.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// BuildFeatureCollection turns the boundary polygons and cherry records into
// one GeoJSON feature collection. Boundary features carry a "name" property;
// point features carry "cultivar_name".
func BuildFeatureCollection(boundaries domain.BoundaryCollection, records []domain.CherryRecord) FeatureCollection {
	features := make([]Feature, 0, len(boundaries)+len(records))

	for _, b := range boundaries {
		rings := make([][][]float64, 0, len(b.Parts))
		for _, part := range b.Parts {
			ring := make([][]float64, 0, len(part))
			for _, p := range part {
				ring = append(ring, []float64{p.Lon, p.Lat})
			}
			rings = append(rings, ring)
		}
		features = append(features, Feature{
			Type:       "Feature",
			Properties: map[string]any{"name": b.Name},
			Geometry:   Geometry{Type: "Polygon", Coordinates: rings},
		})
	}

	for _, r := range records {
		features = append(features, Feature{
			Type:       "Feature",
			Properties: map[string]any{"cultivar_name": r.CultivarName},
			Geometry:   Geometry{Type: "Point", Coordinates: []float64{r.Longitude, r.Latitude}},
		})
	}

	return FeatureCollection{Type: "FeatureCollection", Features: features}
}
