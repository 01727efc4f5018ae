package domain

import "strings"

// CorrectionAction is what a matched correction rule does to a record.
type CorrectionAction int

const (
	// ActionDrop removes the record entirely.
	ActionDrop CorrectionAction = iota
	// ActionRename replaces the cultivar name with the rule's Replacement.
	ActionRename
)

// CorrectionRule is one entry in the post-filter correction table. Match is
// compared exactly against the cultivar name; the first matching rule wins.
type CorrectionRule struct {
	Match       string
	Action      CorrectionAction
	Replacement string
}

// DefaultCorrections repairs known inconsistencies in the inventory's cherry
// names. Drop rules are listed before rename rules so a dropped record can
// never be renamed first: either order of events must be indistinguishable
// from the record simply being absent.
var DefaultCorrections = []CorrectionRule{
	{Match: "Cherrybark Oak", Action: ActionDrop}, // an oak, not a cherry
	{Match: "Chokecherry", Action: ActionRename, Replacement: "Choke cherry"},
	{Match: "Cherry (Snowgoose)", Action: ActionRename, Replacement: "Snowgoose cherry"},
}

// Clean drops records with a missing coordinate or name, preserving the
// input order of the survivors. Drops are silent; they are routine hygiene,
// not errors.
func Clean(records []TreeRecord) []TreeRecord {
	out := make([]TreeRecord, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			out = append(out, r)
		}
	}
	return out
}

// FilterCherry keeps exactly the records whose common name contains the
// case-insensitive substring "cherry", projecting them to CherryRecords.
// ProcessedAt is stamped here, once; later passes never touch it.
func FilterCherry(records []TreeRecord) []CherryRecord {
	now := clock.Now()
	out := make([]CherryRecord, 0, len(records))
	for _, r := range records {
		if !strings.Contains(strings.ToLower(r.CommonName), "cherry") {
			continue
		}
		out = append(out, CherryRecord{
			Longitude:    r.Longitude,
			Latitude:     r.Latitude,
			CultivarName: r.CommonName,
			ProcessedAt:  now,
		})
	}
	return out
}

// ApplyCorrections runs each record through the rule table. The first rule
// whose Match equals the cultivar name decides the record's fate; records
// matching no rule pass through unchanged. Applying the result to the same
// table again is a no-op.
func ApplyCorrections(records []CherryRecord, rules []CorrectionRule) []CherryRecord {
	out := make([]CherryRecord, 0, len(records))
recordLoop:
	for _, r := range records {
		for _, rule := range rules {
			if r.CultivarName != rule.Match {
				continue
			}
			if rule.Action == ActionDrop {
				continue recordLoop
			}
			r.CultivarName = rule.Replacement
			break
		}
		out = append(out, r)
	}
	return out
}

// GroupCounts tallies records per distinct cultivar name.
func GroupCounts(records []CherryRecord) map[string]int {
	counts := make(map[string]int, len(records))
	for _, r := range records {
		counts[r.CultivarName]++
	}
	return counts
}

// CultivarOrder returns the distinct cultivar names in first-occurrence
// order, for stable reporting alongside GroupCounts.
func CultivarOrder(records []CherryRecord) []string {
	seen := make(map[string]bool, len(records))
	var order []string
	for _, r := range records {
		if !seen[r.CultivarName] {
			seen[r.CultivarName] = true
			order = append(order, r.CultivarName)
		}
	}
	return order
}

// Stats is the per-run diagnostic for the normalization pass. Dropped rows
// never surface as errors, but the counts are logged and exported so a run
// against a new inventory vintage can be sanity-checked.
type Stats struct {
	RowsIn               int
	DroppedNull          int
	Matched              int
	DroppedFalsePositive int
	Renamed              int
	Out                  int
}

// Normalize runs the full clean → filter → correct pass and reports what
// happened to the rows along the way.
func Normalize(records []TreeRecord, rules []CorrectionRule) ([]CherryRecord, Stats) {
	stats := Stats{RowsIn: len(records)}

	cleaned := Clean(records)
	stats.DroppedNull = len(records) - len(cleaned)

	matched := FilterCherry(cleaned)
	stats.Matched = len(matched)

	corrected := ApplyCorrections(matched, rules)
	stats.DroppedFalsePositive = len(matched) - len(corrected)
	stats.Out = len(corrected)

	for _, r := range matched {
		for _, rule := range rules {
			if r.CultivarName == rule.Match {
				if rule.Action == ActionRename {
					stats.Renamed++
				}
				break
			}
		}
	}

	return corrected, stats
}
