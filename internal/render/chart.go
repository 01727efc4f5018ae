package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"cherrymap/internal/domain"
)

var boundaryStroke = drawing.ColorFromHex("9aa0a6")

// ChartSink renders the cherry points over the boundary outlines as a PNG
// scatter. A plain lon/lat projection is used; at city scale the distortion
// is invisible.
type ChartSink struct {
	OutDir string
	// PerCultivar additionally writes one panel per cultivar next to the
	// combined image.
	PerCultivar bool
	Logger      *slog.Logger
}

func (s *ChartSink) Name() string { return "chart" }

// Emit writes cherrymap.png, plus cherrymap_<cultivar>.png files when
// PerCultivar is set.
func (s *ChartSink) Emit(_ context.Context, records []domain.CherryRecord, boundaries domain.BoundaryCollection) error {
	if err := os.MkdirAll(s.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	combined := filepath.Join(s.OutDir, "cherrymap.png")
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
		path := filepath.Join(s.OutDir, "cherrymap_"+slug(cultivar)+".png")
		if err := s.renderOne(path, cultivar, subset, boundaries); err != nil {
			return err
		}
	}
	return nil
}

func (s *ChartSink) renderOne(path, title string, records []domain.CherryRecord, boundaries domain.BoundaryCollection) error {
	series := make([]chart.Series, 0, len(boundaries)+1)

	for _, b := range boundaries {
		for _, ring := range b.Parts {
			if len(ring) < 2 {
				continue
			}
			xs := make([]float64, 0, len(ring))
			ys := make([]float64, 0, len(ring))
			for _, p := range ring {
				xs = append(xs, p.Lon)
				ys = append(ys, p.Lat)
			}
			series = append(series, chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: boundaryStroke,
					StrokeWidth: 1.0,
				},
			})
		}
	}

	if len(records) > 0 {
		xs := make([]float64, 0, len(records))
		ys := make([]float64, 0, len(records))
		for _, r := range records {
			xs = append(xs, r.Longitude)
			ys = append(ys, r.Latitude)
		}
		series = append(series, chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    3,
				DotColor:    chart.ColorRed,
			},
		})
	}

	if len(series) == 0 {
		s.Logger.Info("nothing to chart, skipping", "path", path)
		return nil
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1200,
		Height: 900,
		XAxis:  chart.XAxis{Name: "Longitude"},
		YAxis:  chart.YAxis{Name: "Latitude"},
		Series: series,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render chart %s: %w", path, err)
	}
	s.Logger.Info("chart written", "path", path, "points", len(records))
	return nil
}

// slug turns a cultivar name into a safe filename fragment.
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "_"):
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
