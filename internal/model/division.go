package model

// Division is an existing organizational unit of an account
type Division struct {
	ID               string `json:"division_id,omitempty" yaml:"division_id,omitempty"`
	Name             string `json:"name" yaml:"name"`
	ParentDivisionID string `json:"parent_division_id,omitempty" yaml:"parent_division_id,omitempty"`
}

// DivisionType classifies a division
type DivisionType string

const (
	DivisionTypeDivision     DivisionType = "division"
	DivisionTypeSubsidiary   DivisionType = "subsidiary"
	DivisionTypeBusinessUnit DivisionType = "business_unit"
)

// DivisionCandidate is a proposed new division derived from detected subsidiaries
type DivisionCandidate struct {
	Name             string       `json:"name" yaml:"name"`
	Selected         bool         `json:"selected" yaml:"selected"`
	DivisionType     DivisionType `json:"divisionType" yaml:"division_type"`
	ParentDivisionID string       `json:"parentDivisionId,omitempty" yaml:"parent_division_id,omitempty"`
}

// DivisionNames returns the names of the given divisions
func DivisionNames(divisions []Division) []string {
	names := make([]string, 0, len(divisions))
	for _, d := range divisions {
		names = append(names, d.Name)
	}
	return names
}
