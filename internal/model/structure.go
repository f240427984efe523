package model

// DetectedStructure holds corporate-structure facts found in research text.
// Any subset of fields may be set; zero values mean "not found".
type DetectedStructure struct {
	ParentCompany string        `json:"parent_company,omitempty" yaml:"parent_company,omitempty"`
	Subsidiaries  []string      `json:"subsidiaries,omitempty" yaml:"subsidiaries,omitempty"`
	OwnershipType OwnershipType `json:"ownership_type,omitempty" yaml:"ownership_type,omitempty"`
	StockSymbol   string        `json:"stock_symbol,omitempty" yaml:"stock_symbol,omitempty"`
	Headquarters  string        `json:"headquarters,omitempty" yaml:"headquarters,omitempty"`
	CEO           string        `json:"ceo,omitempty" yaml:"ceo,omitempty"`
	FoundedYear   int           `json:"founded_year,omitempty" yaml:"founded_year,omitempty"`
}

// IsEmpty reports whether no field is populated
func (s DetectedStructure) IsEmpty() bool {
	return s.ParentCompany == "" &&
		len(s.Subsidiaries) == 0 &&
		s.OwnershipType == "" &&
		s.StockSymbol == "" &&
		s.Headquarters == "" &&
		s.CEO == "" &&
		s.FoundedYear == 0
}

// Clone returns a copy that shares no slices with s
func (s DetectedStructure) Clone() DetectedStructure {
	out := s
	if s.Subsidiaries != nil {
		out.Subsidiaries = append([]string(nil), s.Subsidiaries...)
	}
	return out
}

// OwnershipType classifies how a company is owned
type OwnershipType string

const (
	OwnershipPublic     OwnershipType = "public"
	OwnershipPrivate    OwnershipType = "private"
	OwnershipSubsidiary OwnershipType = "subsidiary"
)
