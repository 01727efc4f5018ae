// Package domain models municipal street-tree inventory records and the
// normalization pass that reduces them to cherry-tree records.
//
// # Data Source
//
// The tree inventory is a city open-data export: one row per planted tree,
// with WGS-84 coordinates and a free-text common name. Column headers vary
// between export vintages ("X"/"LONGITUDE", "CMMN_NM"/"COMMON_NAME"), which
// is handled at ingest time, not here. Neighborhood boundaries come from a
// separate shapefile export and are overlay context only; tree data never
// modifies them.
//
// # Name Conventions
//
// Cherry cultivars are identified by a case-insensitive substring match on
// "cherry". The inventory's common names are inconsistent:
//
//	"Chokecherry"        — one word, most other cherries are two
//	"Cherry (Snowgoose)" — cultivar in parentheses instead of prefixed
//	"Cherrybark Oak"     — an oak; matches the substring but is not a cherry
//
// The correction table in [DefaultCorrections] repairs the first two and
// drops the third. It is an ordered rule list rather than inline branches so
// new inventory quirks can be added and tested in isolation. Drop rules sort
// before rename rules: a record that any rule drops must come out the same
// as if it had never matched the filter at all.
//
// # Cleaning Policy
//
// Rows with a missing coordinate or name are dropped silently during
// [Clean]. This is routine hygiene for this dataset (dead trees and stumps
// are often logged without coordinates), not an error condition. Drops are
// counted in [Stats] so runs can be sanity-checked, but no individual row
// is reported.
package domain
