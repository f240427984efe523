package aggregate

import (
	"strings"

	"github.com/ppiankov/scout/internal/model"
)

// DedupePeopleAgainstRoster drops detected people whose name matches a known
// stakeholder's full name, ignoring case.
func DedupePeopleAgainstRoster(detected []model.DetectedPerson, roster []model.Stakeholder) []model.DetectedPerson {
	known := make(map[string]bool, len(roster))
	for _, s := range roster {
		known[foldKey(s.FullName)] = true
	}

	out := make([]model.DetectedPerson, 0, len(detected))
	for _, p := range detected {
		if known[foldKey(p.Name)] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SubsidiariesToDivisionCandidates proposes a subsidiary division for every
// name not already among the existing divisions. Names are compared without
// case, both against existing divisions and within the batch.
func SubsidiariesToDivisionCandidates(subsidiaries, existingDivisionNames []string) []model.DivisionCandidate {
	skip := make(map[string]bool, len(existingDivisionNames)+len(subsidiaries))
	for _, name := range existingDivisionNames {
		skip[foldKey(name)] = true
	}

	var out []model.DivisionCandidate
	for _, name := range subsidiaries {
		key := foldKey(name)
		if skip[key] {
			continue
		}
		skip[key] = true
		out = append(out, model.DivisionCandidate{
			Name:         name,
			Selected:     true,
			DivisionType: model.DivisionTypeSubsidiary,
		})
	}
	return out
}

// MergeDivisionCandidates appends candidates from next whose name is not yet
// in prev. Entries already in prev keep their selection and parent.
func MergeDivisionCandidates(prev, next []model.DivisionCandidate) []model.DivisionCandidate {
	out := make([]model.DivisionCandidate, len(prev), len(prev)+len(next))
	copy(out, prev)

	seen := make(map[string]bool, len(prev)+len(next))
	for _, c := range prev {
		seen[foldKey(c.Name)] = true
	}
	for _, c := range next {
		key := foldKey(c.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
