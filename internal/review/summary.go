package review

import (
	"github.com/ppiankov/scout/internal/extract"
	"github.com/ppiankov/scout/internal/model"
)

// ReviewedFinding is an accepted finding together with the people detected in it
type ReviewedFinding struct {
	Finding      model.ResearchFinding  `json:"finding" yaml:"finding"`
	People       []model.DetectedPerson `json:"people" yaml:"people"`
	PeopleSource extract.PeopleSource   `json:"peopleSource,omitempty" yaml:"people_source,omitempty"`
}

// SelectedPeople returns the people the reviewer chose to keep
func (r ReviewedFinding) SelectedPeople() []model.DetectedPerson {
	var out []model.DetectedPerson
	for _, p := range r.People {
		if p.Selected {
			out = append(out, p)
		}
	}
	return out
}

// Summary is the confirmed view of a session, ready to publish
type Summary struct {
	Findings  []ReviewedFinding         `json:"findings" yaml:"findings"` // acceptance order
	Structure *model.DetectedStructure  `json:"structure,omitempty" yaml:"structure,omitempty"`
	Divisions []model.DivisionCandidate `json:"divisionCandidates" yaml:"division_candidates"`
}

// Summary returns accepted findings in acceptance order with the current aggregate
func (s *Session) Summary() Summary {
	sum := Summary{
		Structure: s.Aggregate(),
		Divisions: s.Candidates(),
	}
	for _, id := range s.accepted {
		e := s.entries[id]
		sum.Findings = append(sum.Findings, ReviewedFinding{
			Finding:      e.finding,
			People:       append([]model.DetectedPerson(nil), e.people...),
			PeopleSource: e.source,
		})
	}
	return sum
}

// SelectAllPeople marks every detected person on accepted findings as selected
func (s *Session) SelectAllPeople() int {
	n := 0
	for _, id := range s.accepted {
		e := s.entries[id]
		for i := range e.people {
			if !e.people[i].Selected {
				e.people[i].Selected = true
				n++
			}
		}
	}
	return n
}
