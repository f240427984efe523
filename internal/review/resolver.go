package review

import (
	"context"

	"go.uber.org/zap"

	"github.com/ppiankov/scout/internal/extract"
	"github.com/ppiankov/scout/internal/model"
)

// PeopleFinder finds people in text with a model. Implemented by llm.OpenAIFinder.
type PeopleFinder interface {
	FindPeople(ctx context.Context, content string) ([]model.DetectedPerson, error)
}

// Resolver produces the extraction result for one finding.
// People come from the finding itself, then the finder, then the regex rules.
type Resolver struct {
	extractor *extract.Extractor
	finder    PeopleFinder
	logger    *zap.Logger
}

// NewResolver creates a resolver. finder and logger may be nil.
func NewResolver(extractor *extract.Extractor, finder PeopleFinder, logger *zap.Logger) *Resolver {
	if extractor == nil {
		extractor = extract.NewExtractor()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{extractor: extractor, finder: finder, logger: logger}
}

// Resolve extracts people and structure from the finding's current text
func (r *Resolver) Resolve(ctx context.Context, f model.ResearchFinding) extract.Result {
	text := extract.PlainText(f.Text())
	res := extract.Result{
		FindingID: f.ID,
		Structure: r.extractor.Structure(text),
	}

	if len(f.People) > 0 {
		res.People = append([]model.DetectedPerson(nil), f.People...)
		res.Source = extract.SourceFinding
		return res
	}

	if r.finder != nil {
		people, err := r.finder.FindPeople(ctx, text)
		switch {
		case err != nil:
			r.logger.Warn("people finder failed, using rules",
				zap.String("finding", f.ID), zap.Error(err))
		case len(people) > 0:
			res.People = people
			res.Source = extract.SourceModel
			return res
		}
	}

	res.People = r.extractor.People(text)
	res.Source = extract.SourceRules
	return res
}
