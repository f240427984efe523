package model

// DetectedPerson is a person mentioned in research text, pending review
type DetectedPerson struct {
	Name     string `json:"name" yaml:"name"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Selected bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// Stakeholder is a contact already known for an account (the roster)
type Stakeholder struct {
	ID       string `json:"stakeholder_id,omitempty" yaml:"stakeholder_id,omitempty"`
	FullName string `json:"full_name" yaml:"full_name"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
}
