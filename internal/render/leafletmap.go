package render

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"cherrymap/internal/domain"
)

// MapSink writes a self-contained Leaflet page: neighborhood polygons with
// name tooltips plus a circle marker per cherry record. Leaflet itself comes
// from a CDN; the feature collection is embedded in the page so the file
// needs no server.
type MapSink struct {
	OutDir string
	// Cluster pulls in the markercluster plugin and groups nearby points.
	Cluster bool
	// PerCultivar additionally writes one page per cultivar.
	PerCultivar bool
	Logger      *slog.Logger
}

func (s *MapSink) Name() string { return "map" }

// Emit writes cherrymap.html, plus cherrymap_<cultivar>.html files when
// PerCultivar is set.
func (s *MapSink) Emit(_ context.Context, records []domain.CherryRecord, boundaries domain.BoundaryCollection) error {
	if err := os.MkdirAll(s.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	combined := filepath.Join(s.OutDir, "cherrymap.html")
	if err := s.renderOne(combined, "Cherry trees", records, boundaries); err != nil {
		return err
	}

	if !s.PerCultivar {
		return nil
	}

	for _, cultivar := range domain.CultivarOrder(records) {
		var subset []domain.CherryRecord
		for _, r := range records {
			if r.CultivarName == cultivar {
				subset = append(subset, r)
			}
		}
		path := filepath.Join(s.OutDir, "cherrymap_"+slug(cultivar)+".html")
		if err := s.renderOne(path, cultivar, subset, boundaries); err != nil {
			return err
		}
	}
	return nil
}

func (s *MapSink) renderOne(path, title string, records []domain.CherryRecord, boundaries domain.BoundaryCollection) error {
	fc := BuildFeatureCollection(boundaries, records)
	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("marshal feature collection: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create map file: %w", err)
	}
	defer f.Close()

	err = mapTemplate.Execute(f, mapPage{
		Title:   title,
		GeoJSON: template.JS(data),
		Cluster: s.Cluster,
		Center:  centerOf(records, boundaries),
	})
	if err != nil {
		return fmt.Errorf("render map %s: %w", path, err)
	}
	s.Logger.Info("map written", "path", path, "points", len(records), "polygons", len(boundaries))
	return nil
}

// centerOf picks an initial view center: mean of the points, falling back to
// the first boundary vertex, falling back to origin.
func centerOf(records []domain.CherryRecord, boundaries domain.BoundaryCollection) [2]float64 {
	if len(records) > 0 {
		var lat, lon float64
		for _, r := range records {
			lat += r.Latitude
			lon += r.Longitude
		}
		n := float64(len(records))
		return [2]float64{lat / n, lon / n}
	}
	for _, b := range boundaries {
		for _, part := range b.Parts {
			if len(part) > 0 {
				return [2]float64{part[0].Lat, part[0].Lon}
			}
		}
	}
	return [2]float64{}
}

type mapPage struct {
	Title   string
	GeoJSON template.JS
	Cluster bool
	Center  [2]float64
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
{{if .Cluster}}<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.Default.css">
<script src="https://unpkg.com/leaflet.markercluster@1.5.3/dist/leaflet.markercluster.js"></script>
{{end}}<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var collection = {{.GeoJSON}};
var map = L.map('map').setView([{{index .Center 0}}, {{index .Center 1}}], 12);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

var polygons = L.geoJSON(collection, {
  filter: function (f) { return f.geometry.type === 'Polygon'; },
  style: { color: '#546e7a', weight: 1, fillOpacity: 0.05 },
  onEachFeature: function (f, layer) {
    if (f.properties && f.properties.name) {
      layer.bindTooltip(f.properties.name);
    }
  }
}).addTo(map);

var points = L.geoJSON(collection, {
  filter: function (f) { return f.geometry.type === 'Point'; },
  pointToLayer: function (f, latlng) {
    return L.circleMarker(latlng, { radius: 4, color: '#c2185b', fillOpacity: 0.7 });
  },
  onEachFeature: function (f, layer) {
    if (f.properties && f.properties.cultivar_name) {
      layer.bindPopup(f.properties.cultivar_name);
    }
  }
});
{{if .Cluster}}var cluster = L.markerClusterGroup();
cluster.addLayer(points);
map.addLayer(cluster);
{{else}}points.addTo(map);
{{end}}</script>
</body>
</html>
`))
