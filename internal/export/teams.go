package export

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/gridstats/nfl-export/internal/frame"
)

// Franchise relocation aliases: historical labels mapped to the current
// canonical label. Abbreviations and full names are separate alias tables
// because they appear in different source columns. The pairs are disjoint,
// so a single lookup per value is order-independent.
var (
	teamAbbrAliases = map[string]string{
		"STL": "LA",  // Rams: St. Louis -> Los Angeles
		"SD":  "LAC", // Chargers: San Diego -> Los Angeles
		"OAK": "LV",  // Raiders: Oakland -> Las Vegas
	}
	teamNameAliases = map[string]string{
		"St. Louis Rams":     "Los Angeles Rams",
		"San Diego Chargers": "Los Angeles Chargers",
		"Oakland Raiders":    "Las Vegas Raiders",
	}
)

// CanonicalAbbr maps a historical team abbreviation to its current form;
// unknown labels pass through untouched.
func CanonicalAbbr(label string) string {
	if canonical, ok := teamAbbrAliases[label]; ok {
		return canonical
	}
	return label
}

// CanonicalName maps a historical full team name to its current form.
func CanonicalName(label string) string {
	if canonical, ok := teamNameAliases[label]; ok {
		return canonical
	}
	return label
}

// NormalizeAbbr rewrites every historical abbreviation in col to the
// canonical label.
func NormalizeAbbr(f *frame.Frame, col string) *frame.Frame {
	return f.WithColumn(col, func(r frame.Row) string {
		return CanonicalAbbr(r.Get(col))
	})
}

// NormalizeName rewrites every historical full name in col to the canonical
// label.
func NormalizeName(f *frame.Frame, col string) *frame.Frame {
	return f.WithColumn(col, func(r frame.Row) string {
		return CanonicalName(r.Get(col))
	})
}

// TeamID derives the surrogate team identifier from a canonical label.
// Equal inputs always produce equal outputs; the value is unsigned and can
// exceed the signed 64-bit range.
func TeamID(canonical string) uint64 {
	return xxhash.Sum64String(canonical)
}

// HashAbbrColumn normalizes the team abbreviations in col and appends dest
// holding the TeamID of the canonical label. Normalization always runs
// before hashing here so relocated franchises cannot fragment into two IDs.
// Null labels produce null IDs.
func HashAbbrColumn(f *frame.Frame, col, dest string) *frame.Frame {
	f = NormalizeAbbr(f, col)
	return f.WithColumn(dest, func(r frame.Row) string {
		label := r.Get(col)
		if label == "" {
			return ""
		}
		return strconv.FormatUint(TeamID(label), 10)
	})
}

// checkTeamIDCollisions verifies that no two distinct canonical labels hash
// to the same TeamID. The team cardinality is tiny, so a collision is
// astronomically unlikely, but a silent one would merge two franchises.
func checkTeamIDCollisions(labels []string) error {
	byID := make(map[uint64]string, len(labels))
	for _, label := range labels {
		if label == "" {
			continue
		}
		id := TeamID(label)
		if prev, ok := byID[id]; ok && prev != label {
			return fmt.Errorf("teamID collision: %q and %q both hash to %d", prev, label, id)
		}
		byID[id] = label
	}
	return nil
}
