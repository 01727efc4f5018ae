package ingest

import (
	"context"

	"cherrymap/internal/domain"
)

// TreeFile adapts a CSV path to the pipeline's tree source.
type TreeFile struct {
	Path string
}

func (f TreeFile) Trees(_ context.Context) ([]domain.TreeRecord, error) {
	return LoadTrees(f.Path)
}

// BoundaryArchive adapts a zipped shapefile path to the pipeline's boundary
// source.
type BoundaryArchive struct {
	Path string
}

func (a BoundaryArchive) Boundaries(_ context.Context) (domain.BoundaryCollection, error) {
	return LoadBoundaries(a.Path)
}
