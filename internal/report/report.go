// Package report prints the per-cultivar count summary for a run.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"cherrymap/internal/domain"
)

// Sink writes a per-cultivar count table to Out. Counts are listed in
// first-occurrence order; only the values carry meaning, the order is just
// for stable output.
type Sink struct {
	Out    io.Writer
	Logger *slog.Logger
}

func (s *Sink) Name() string { return "report" }

// Emit writes the count table. The boundary collection is unused here; the
// report covers records only.
func (s *Sink) Emit(_ context.Context, records []domain.CherryRecord, _ domain.BoundaryCollection) error {
	counts := domain.GroupCounts(records)
	order := domain.CultivarOrder(records)

	w := tabwriter.NewWriter(s.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "CULTIVAR\tCOUNT\n")
	total := 0
	for _, name := range order {
		fmt.Fprintf(w, "%s\t%d\n", name, counts[name])
		total += counts[name]
	}
	fmt.Fprintf(w, "TOTAL\t%d\n", total)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	s.Logger.Info("report written", "cultivars", len(order), "records", total)
	return nil
}
