package ingest

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	shp "github.com/jonas-p/go-shp"

	"cherrymap/internal/domain"
)

// Attribute names accepted for the boundary's display name. Matching is
// case-insensitive; the DC neighborhood-cluster export uses NBH_NAMES.
var boundaryNameAliases = []string{"name", "nbh_names", "neighborhood", "label"}

// LoadBoundaries unpacks a zipped shapefile set into a scratch directory,
// reads the polygon shapes and their name attribute, and returns the
// collection. The scratch directory is removed before returning. Any
// failure here is fatal to the run: a corrupt archive, a missing .shp
// member, or a shapefile without a usable name attribute.
func LoadBoundaries(archivePath string) (domain.BoundaryCollection, error) {
	scratch, err := os.MkdirTemp("", "cherrymap_boundaries_*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	shpPath, err := unpackArchive(archivePath, scratch)
	if err != nil {
		return nil, err
	}

	return readShapefile(shpPath)
}

// unpackArchive extracts every member of the zip into dir and returns the
// path of the extracted .shp member.
func unpackArchive(archivePath, dir string) (string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("open boundary archive %s: %w", archivePath, err)
	}
	defer r.Close()

	var shpPath string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		// Flatten into the scratch dir; shapefile siblings (.shp/.shx/.dbf)
		// must land next to each other for the reader to find them.
		name := filepath.Base(f.Name)
		if name == "" || strings.HasPrefix(name, ".") {
			continue
		}
		dest := filepath.Join(dir, name)
		if err := extractMember(f, dest); err != nil {
			return "", fmt.Errorf("extract %s: %w", f.Name, err)
		}
		if strings.EqualFold(filepath.Ext(name), ".shp") {
			shpPath = dest
		}
	}

	if shpPath == "" {
		return "", fmt.Errorf("boundary archive %s contains no .shp member", archivePath)
	}
	return shpPath, nil
}

func extractMember(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// readShapefile reads polygon shapes and their name attribute into the
// boundary collection. Non-polygon shapes are skipped.
func readShapefile(path string) (domain.BoundaryCollection, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile %s: %w", path, err)
	}
	defer reader.Close()

	nameField, err := findNameField(reader.Fields())
	if err != nil {
		return nil, fmt.Errorf("shapefile %s: %w", path, err)
	}

	var boundaries domain.BoundaryCollection
	for reader.Next() {
		n, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		boundaries = append(boundaries, domain.Boundary{
			Name:  strings.TrimSpace(reader.ReadAttribute(n, nameField)),
			Parts: splitParts(poly),
		})
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile %s: %w", path, err)
	}

	return boundaries, nil
}

func findNameField(fields []shp.Field) (int, error) {
	for _, alias := range boundaryNameAliases {
		for i, f := range fields {
			if strings.EqualFold(strings.TrimSpace(f.String()), alias) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("no name attribute among fields (want one of %v)", boundaryNameAliases)
}

// splitParts regroups the shapefile's flat vertex array into per-part rings.
// Parts[i] is the index of part i's first vertex; the last part runs to the
// end of the array.
func splitParts(poly *shp.Polygon) [][]domain.Point {
	parts := make([][]domain.Point, 0, len(poly.Parts))
	for i, start := range poly.Parts {
		end := int32(len(poly.Points))
		if i+1 < len(poly.Parts) {
			end = poly.Parts[i+1]
		}
		ring := make([]domain.Point, 0, end-start)
		for _, p := range poly.Points[start:end] {
			ring = append(ring, domain.Point{Lon: p.X, Lat: p.Y})
		}
		parts = append(parts, ring)
	}
	return parts
}
