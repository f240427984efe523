package extract

import (
	"github.com/ppiankov/scout/internal/model"
)

// People applies each people rule in order and returns the candidates,
// deduplicated by exact name. The first rule to find a name decides its title.
func (e *Extractor) People(content string) []model.DetectedPerson {
	if content == "" {
		return nil
	}

	seen := make(map[string]bool)
	var people []model.DetectedPerson
	for _, rule := range e.peopleRules {
		for _, p := range rule.Match(content) {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			people = append(people, p)
		}
	}
	return people
}
