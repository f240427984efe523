package extract

import (
	"time"

	"github.com/ppiankov/scout/internal/model"
)

// Extractor applies the people and structure rule tables to free text.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	peopleRules    []PersonRule
	structureRules []StructureRule
	now            func() time.Time
}

// Option configures an Extractor
type Option func(*Extractor)

// WithClock sets the clock used to bound founding years
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// WithPeopleRules replaces the people rule table
func WithPeopleRules(rules []PersonRule) Option {
	return func(e *Extractor) { e.peopleRules = rules }
}

// WithStructureRules replaces the structure rule table
func WithStructureRules(rules []StructureRule) Option {
	return func(e *Extractor) { e.structureRules = rules }
}

// NewExtractor creates an extractor using the package rule tables
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		peopleRules:    PeopleRules,
		structureRules: StructureRules,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is everything extracted from one finding
type Result struct {
	FindingID string                   `json:"findingId,omitempty" yaml:"finding_id,omitempty"`
	People    []model.DetectedPerson   `json:"people" yaml:"people"`
	Structure *model.DetectedStructure `json:"structure,omitempty" yaml:"structure,omitempty"`
	Source    PeopleSource             `json:"peopleSource,omitempty" yaml:"people_source,omitempty"`
}

// PeopleSource records where a result's people came from
type PeopleSource string

const (
	SourceFinding PeopleSource = "finding" // supplied with the finding by the research service
	SourceModel   PeopleSource = "model"   // returned by the LLM people finder
	SourceRules   PeopleSource = "rules"
)

// Extract runs both rule tables over content. HTML is reduced to visible text first.
func (e *Extractor) Extract(content string) Result {
	text := PlainText(content)
	return Result{
		People:    e.People(text),
		Structure: e.Structure(text),
		Source:    SourceRules,
	}
}

var defaultExtractor = NewExtractor()

// ExtractPeople finds named people and their titles using the default extractor
func ExtractPeople(content string) []model.DetectedPerson {
	return defaultExtractor.People(content)
}

// ExtractStructure finds corporate-structure facts using the default extractor.
// Returns nil when nothing was found.
func ExtractStructure(content string) *model.DetectedStructure {
	return defaultExtractor.Structure(content)
}
