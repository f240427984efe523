package extract

import (
	"strconv"
	"strings"

	"github.com/ppiankov/scout/internal/model"
)

const (
	minEntityLen = 3
	maxEntityLen = 100
	minYear      = 1800
)

// Structure applies the structure rules and returns the facts found,
// or nil when no field was populated.
func (e *Extractor) Structure(content string) *model.DetectedStructure {
	if content == "" {
		return nil
	}

	var s model.DetectedStructure

	if v, ok := e.first(FieldParentCompany, content, entityLength); ok {
		s.ParentCompany = v
		s.OwnershipType = model.OwnershipSubsidiary
	}

	for _, rule := range e.rulesFor(FieldSubsidiaries) {
		v, ok := rule.Find(content)
		if !ok {
			continue
		}
		if names := splitNameList(v); len(names) > 0 {
			s.Subsidiaries = names
			break
		}
	}

	// explicit markers take precedence over an inferred parent relationship
	if v, ok := e.first(FieldOwnership, content, nil); ok {
		s.OwnershipType = model.OwnershipType(v)
	}

	if v, ok := e.first(FieldStockSymbol, content, nil); ok {
		s.StockSymbol = strings.ToUpper(v)
		s.OwnershipType = model.OwnershipPublic
	}

	if v, ok := e.first(FieldHeadquarters, content, entityLength); ok {
		s.Headquarters = v
	}

	if v, ok := e.first(FieldCEO, content, ValidName); ok {
		s.CEO = v
	}

	if v, ok := e.first(FieldFoundedYear, content, e.plausibleYear); ok {
		s.FoundedYear, _ = strconv.Atoi(v)
	}

	if s.IsEmpty() {
		return nil
	}
	return &s
}

// first returns the value of the first rule for field whose match passes accept
func (e *Extractor) first(field Field, content string, accept func(string) bool) (string, bool) {
	for _, rule := range e.rulesFor(field) {
		v, ok := rule.Find(content)
		if !ok {
			continue
		}
		if accept == nil || accept(v) {
			return v, true
		}
	}
	return "", false
}

func (e *Extractor) rulesFor(field Field) []StructureRule {
	var out []StructureRule
	for _, r := range e.structureRules {
		if r.Field == field {
			out = append(out, r)
		}
	}
	return out
}

func entityLength(s string) bool {
	return len(s) >= minEntityLen && len(s) < maxEntityLen
}

func (e *Extractor) plausibleYear(s string) bool {
	year, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return year >= minYear && year <= e.now().Year()
}
