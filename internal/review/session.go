// Package review tracks a reviewer's decisions on research findings and keeps
// the running aggregate of everything accepted so far.
package review

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/scout/internal/aggregate"
	"github.com/ppiankov/scout/internal/extract"
	"github.com/ppiankov/scout/internal/model"
)

var (
	// ErrUnknownFinding is returned for finding IDs not in the session
	ErrUnknownFinding = eris.New("review: unknown finding")
	// ErrDuplicateFinding is returned when a finding ID is added twice
	ErrDuplicateFinding = eris.New("review: duplicate finding")
	// ErrUnknownCandidate is returned for division names not among the candidates
	ErrUnknownCandidate = eris.New("review: unknown division candidate")
)

type entry struct {
	finding   model.ResearchFinding
	resolved  bool
	people    []model.DetectedPerson
	structure *model.DetectedStructure
	source    extract.PeopleSource
}

// Session holds one review of research findings for an account.
// Not safe for concurrent use.
type Session struct {
	resolver  *Resolver
	roster    []model.Stakeholder
	divisions []model.Division
	logger    *zap.Logger

	entries    map[string]*entry
	order      []string // receipt order
	accepted   []string // acceptance order
	aggregate  *model.DetectedStructure
	candidates []model.DivisionCandidate
}

// NewSession creates a session that dedupes against the given roster and divisions
func NewSession(resolver *Resolver, roster []model.Stakeholder, divisions []model.Division, logger *zap.Logger) *Session {
	if resolver == nil {
		resolver = NewResolver(nil, nil, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		resolver:  resolver,
		roster:    roster,
		divisions: divisions,
		logger:    logger,
		entries:   make(map[string]*entry),
	}
}

// Add registers findings. Findings without a status start pending.
func (s *Session) Add(findings ...model.ResearchFinding) error {
	for _, f := range findings {
		if _, ok := s.entries[f.ID]; ok {
			return eris.Wrapf(ErrDuplicateFinding, "finding %s", f.ID)
		}
		if f.Status == "" {
			f.Status = model.StatusPending
		}
		s.entries[f.ID] = &entry{finding: f}
		s.order = append(s.order, f.ID)
	}
	return nil
}

// Accept marks a finding accepted. People are resolved on the first accept.
func (s *Session) Accept(ctx context.Context, id string) error {
	e, err := s.get(id)
	if err != nil {
		return err
	}
	s.accept(ctx, e, model.StatusAccepted)
	s.recompute()
	return nil
}

// AcceptAllPending accepts every pending finding in the order they were added
func (s *Session) AcceptAllPending(ctx context.Context) int {
	n := 0
	for _, id := range s.order {
		e := s.entries[id]
		if e.finding.Status != model.StatusPending {
			continue
		}
		s.accept(ctx, e, model.StatusAccepted)
		n++
	}
	s.recompute()
	return n
}

// Edit replaces a finding's text and accepts it. Extraction is redone on the
// new text; reviewer selections survive for people still detected.
func (s *Session) Edit(ctx context.Context, id, content string) error {
	e, err := s.get(id)
	if err != nil {
		return err
	}
	e.finding.EditedContent = content

	prev := e.people
	e.resolved = false
	s.accept(ctx, e, model.StatusEdited)
	keepSelections(e.people, prev)

	s.recompute()
	return nil
}

// Reject removes a finding's contribution from the aggregate
func (s *Session) Reject(id string) error {
	return s.setInactive(id, model.StatusRejected)
}

// Undo returns a finding to pending and removes its contribution
func (s *Session) Undo(id string) error {
	return s.setInactive(id, model.StatusPending)
}

// TogglePerson flips the selection of a detected person on a finding
func (s *Session) TogglePerson(id, name string) error {
	e, err := s.get(id)
	if err != nil {
		return err
	}
	for i := range e.people {
		if e.people[i].Name == name {
			e.people[i].Selected = !e.people[i].Selected
			return nil
		}
	}
	return eris.Errorf("review: no person %q on finding %s", name, id)
}

// ToggleDivision flips the selection of a division candidate
func (s *Session) ToggleDivision(name string) error {
	c, err := s.candidate(name)
	if err != nil {
		return err
	}
	c.Selected = !c.Selected
	return nil
}

// SetDivisionParent places a division candidate under an existing division
func (s *Session) SetDivisionParent(name, parentID string) error {
	c, err := s.candidate(name)
	if err != nil {
		return err
	}
	c.ParentDivisionID = parentID
	return nil
}

// Finding returns a finding with its current status
func (s *Session) Finding(id string) (model.ResearchFinding, error) {
	e, err := s.get(id)
	if err != nil {
		return model.ResearchFinding{}, err
	}
	return e.finding, nil
}

// Findings returns all findings in the order they were added
func (s *Session) Findings() []model.ResearchFinding {
	out := make([]model.ResearchFinding, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id].finding)
	}
	return out
}

// Aggregate returns the merged structure of accepted findings, or nil
func (s *Session) Aggregate() *model.DetectedStructure {
	if s.aggregate == nil {
		return nil
	}
	agg := s.aggregate.Clone()
	return &agg
}

// Candidates returns the proposed new divisions
func (s *Session) Candidates() []model.DivisionCandidate {
	return append([]model.DivisionCandidate(nil), s.candidates...)
}

func (s *Session) get(id string) (*entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownFinding, "finding %s", id)
	}
	return e, nil
}

func (s *Session) candidate(name string) (*model.DivisionCandidate, error) {
	for i := range s.candidates {
		if s.candidates[i].Name == name {
			return &s.candidates[i], nil
		}
	}
	return nil, eris.Wrapf(ErrUnknownCandidate, "division %q", name)
}

func (s *Session) accept(ctx context.Context, e *entry, status model.FindingStatus) {
	if !e.resolved {
		res := s.resolver.Resolve(ctx, e.finding)
		people := aggregate.DedupePeopleAgainstRoster(res.People, s.roster)
		for i := range people {
			people[i].Selected = false
		}
		e.people = people
		e.structure = res.Structure
		e.source = res.Source
		e.resolved = true

		s.logger.Debug("finding resolved",
			zap.String("finding", e.finding.ID),
			zap.String("people_source", string(res.Source)),
			zap.Int("people", len(people)),
			zap.Bool("structure", res.Structure != nil))
	}

	e.finding.Status = status
	s.markAccepted(e.finding.ID)
}

func (s *Session) setInactive(id string, status model.FindingStatus) error {
	e, err := s.get(id)
	if err != nil {
		return err
	}
	e.finding.Status = status
	s.unmarkAccepted(id)
	s.recompute()
	return nil
}

func (s *Session) markAccepted(id string) {
	for _, a := range s.accepted {
		if a == id {
			return
		}
	}
	s.accepted = append(s.accepted, id)
}

func (s *Session) unmarkAccepted(id string) {
	for i, a := range s.accepted {
		if a == id {
			s.accepted = append(s.accepted[:i], s.accepted[i+1:]...)
			return
		}
	}
}

// recompute folds accepted findings in acceptance order and grows the
// candidate list from the resulting subsidiaries
func (s *Session) recompute() {
	structures := make([]*model.DetectedStructure, 0, len(s.accepted))
	for _, id := range s.accepted {
		structures = append(structures, s.entries[id].structure)
	}
	s.aggregate = aggregate.Fold(structures...)

	if s.aggregate == nil || len(s.aggregate.Subsidiaries) == 0 {
		return
	}
	fresh := aggregate.SubsidiariesToDivisionCandidates(s.aggregate.Subsidiaries, model.DivisionNames(s.divisions))
	s.candidates = aggregate.MergeDivisionCandidates(s.candidates, fresh)
}

func keepSelections(people, prev []model.DetectedPerson) {
	selected := make(map[string]bool, len(prev))
	for _, p := range prev {
		if p.Selected {
			selected[p.Name] = true
		}
	}
	for i := range people {
		if selected[people[i].Name] {
			people[i].Selected = true
		}
	}
}
