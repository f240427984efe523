// Package aggregate folds per-finding extraction results into one account view.
//
// Every function here is pure: inputs are never modified and results share
// no slices with them. Merge is order-dependent; callers fold findings in the
// order a reviewer accepted them.
package aggregate

import (
	"github.com/ppiankov/scout/internal/model"
)

// Merge combines next into existing. A scalar field already set in existing
// is kept; otherwise next's value is adopted. Subsidiaries are the ordered
// union of both lists, deduplicated by exact string.
func Merge(existing, next model.DetectedStructure) model.DetectedStructure {
	out := existing.Clone()

	if out.ParentCompany == "" {
		out.ParentCompany = next.ParentCompany
	}
	if out.OwnershipType == "" {
		out.OwnershipType = next.OwnershipType
	}
	if out.StockSymbol == "" {
		out.StockSymbol = next.StockSymbol
	}
	if out.Headquarters == "" {
		out.Headquarters = next.Headquarters
	}
	if out.CEO == "" {
		out.CEO = next.CEO
	}
	if out.FoundedYear == 0 {
		out.FoundedYear = next.FoundedYear
	}

	out.Subsidiaries = union(out.Subsidiaries, next.Subsidiaries)
	return out
}

// Fold merges structures left to right starting from the empty structure.
// Nil entries are skipped. Returns nil when nothing was found.
func Fold(structures ...*model.DetectedStructure) *model.DetectedStructure {
	var agg model.DetectedStructure
	for _, s := range structures {
		if s == nil {
			continue
		}
		agg = Merge(agg, *s)
	}
	if agg.IsEmpty() {
		return nil
	}
	return &agg
}

func union(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
