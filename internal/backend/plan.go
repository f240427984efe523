package backend

import (
	"github.com/ppiankov/scout/internal/model"
	"github.com/ppiankov/scout/internal/review"
)

const profileNotesPrefix = "Detected from research: "

const defaultSignalSource = "AI Research"

// Plan is the set of writes that publish a reviewed session to an account
type Plan struct {
	Stakeholders    []NewStakeholder         `json:"stakeholders"`
	Divisions       []NewDivision            `json:"divisions"`
	Structure       *model.DetectedStructure `json:"corporate_structure,omitempty"`
	Signals         []Signal                 `json:"signals"`
	ResearchSummary string                   `json:"research_summary,omitempty"`
}

// IsEmpty reports whether the plan writes nothing
func (p Plan) IsEmpty() bool {
	return len(p.Stakeholders) == 0 && len(p.Divisions) == 0 && p.Structure == nil && len(p.Signals) == 0
}

// BuildPlan turns a review summary into backend writes. existing is the
// account's current corporate structure and may be nil.
func BuildPlan(sum review.Summary, existing *model.DetectedStructure) Plan {
	var plan Plan

	for _, rf := range sum.Findings {
		for _, p := range rf.SelectedPeople() {
			plan.Stakeholders = append(plan.Stakeholders, NewStakeholder{
				FullName:     p.Name,
				Title:        p.Title,
				ProfileNotes: profileNotesPrefix + rf.Finding.Text(),
				FindingID:    rf.Finding.ID,
			})
		}
		plan.Signals = append(plan.Signals, signalFor(rf.Finding))
	}

	for _, c := range sum.Divisions {
		if !c.Selected {
			continue
		}
		d := NewDivision{Name: c.Name, DivisionType: c.DivisionType}
		if d.DivisionType == "" {
			d.DivisionType = model.DivisionTypeSubsidiary
		}
		if c.ParentDivisionID != "" {
			parent := c.ParentDivisionID
			d.ParentDivisionID = &parent
		}
		plan.Divisions = append(plan.Divisions, d)
	}

	if sum.Structure != nil {
		merged := OverlayStructure(existing, *sum.Structure)
		plan.Structure = &merged
	}
	return plan
}

// OverlayStructure lays detected values over the existing structure.
// Subsidiaries stay as they were; detected ones become divisions instead.
func OverlayStructure(existing *model.DetectedStructure, detected model.DetectedStructure) model.DetectedStructure {
	var out model.DetectedStructure
	if existing != nil {
		out = existing.Clone()
	}
	if detected.ParentCompany != "" {
		out.ParentCompany = detected.ParentCompany
	}
	if detected.OwnershipType != "" {
		out.OwnershipType = detected.OwnershipType
	}
	if detected.StockSymbol != "" {
		out.StockSymbol = detected.StockSymbol
	}
	if detected.Headquarters != "" {
		out.Headquarters = detected.Headquarters
	}
	if detected.CEO != "" {
		out.CEO = detected.CEO
	}
	if detected.FoundedYear != 0 {
		out.FoundedYear = detected.FoundedYear
	}
	if out.Subsidiaries == nil {
		out.Subsidiaries = []string{}
	}
	return out
}

func signalFor(f model.ResearchFinding) Signal {
	source := defaultSignalSource
	if len(f.Sources) > 0 && f.Sources[0] != "" {
		source = f.Sources[0]
	}
	return Signal{
		SignalType: SignalType(f.CategoryID),
		Title:      f.Title,
		Summary:    f.Text(),
		Source:     source,
		Confidence: f.Confidence,
		Category:   f.CategoryID,
		FindingID:  f.ID,
	}
}

var signalTypes = map[string]string{
	"company-overview":   "strategic",
	"leadership":         "leadership",
	"news":               "news",
	"partnerships":       "strategic",
	"product":            "product",
	"security":           "incident",
	"compliance":         "regulatory",
	"funding":            "funding",
	"ma":                 "expansion",
	"hiring":             "expansion",
	"regulatory":         "regulatory",
	"security-incidents": "incident",
	"product-launches":   "product",
	"leadership-changes": "leadership",
	"competitor-news":    "strategic",
	"industry-trends":    "news",
	"people":             "strategic",
}

// SignalType maps a research category to a signal type. Unknown categories are news.
func SignalType(categoryID string) string {
	if t, ok := signalTypes[categoryID]; ok {
		return t
	}
	return "news"
}
