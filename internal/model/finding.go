package model

// ResearchFinding is one unit of free-text research returned by the research service
type ResearchFinding struct {
	ID           string           `json:"id" yaml:"id"`
	CategoryID   string           `json:"categoryId" yaml:"category_id"`
	CategoryName string           `json:"categoryName,omitempty" yaml:"category_name,omitempty"`
	Title        string           `json:"title,omitempty" yaml:"title,omitempty"`
	Content      string           `json:"content" yaml:"content"`
	Confidence   Confidence       `json:"confidence" yaml:"confidence"`
	Sources      []string         `json:"sources,omitempty" yaml:"sources,omitempty"`
	SourceURLs   []string         `json:"sourceUrls,omitempty" yaml:"source_urls,omitempty"`
	People       []DetectedPerson `json:"people,omitempty" yaml:"people,omitempty"` // AI-provided people, if any
	Status       FindingStatus    `json:"status,omitempty" yaml:"status,omitempty"`

	// EditedContent replaces Content once a reviewer edits the finding
	EditedContent string `json:"editedContent,omitempty" yaml:"edited_content,omitempty"`
}

// Text returns the edited content when present, otherwise the original content
func (f ResearchFinding) Text() string {
	if f.EditedContent != "" {
		return f.EditedContent
	}
	return f.Content
}

// Confidence is the research service's confidence in a finding
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Valid reports whether c is a known confidence level
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// FindingStatus is the reviewer's decision on a finding
type FindingStatus string

const (
	StatusPending  FindingStatus = "pending"
	StatusAccepted FindingStatus = "accepted"
	StatusRejected FindingStatus = "rejected"
	StatusEdited   FindingStatus = "edited" // accepted with reviewer changes
)

// IsAccepted reports whether the finding contributes to the aggregate
func (s FindingStatus) IsAccepted() bool {
	return s == StatusAccepted || s == StatusEdited
}
