package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/scout/internal/extract"
	"github.com/ppiankov/scout/internal/model"
)

// PeopleFinder finds named people and their job titles in research text
type PeopleFinder interface {
	// Name returns the provider name
	Name() string

	// FindPeople returns the people mentioned in content, validated and deduplicated
	FindPeople(ctx context.Context, content string) ([]model.DetectedPerson, error)
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama" or "" (disabled)
	Provider string

	Model   string
	APIKey  string
	BaseURL string // custom endpoint; any OpenAI-compatible server works with "openai"

	Timeout   int // seconds
	MaxTokens int

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns the disabled configuration
func DefaultConfig() Config {
	return Config{
		Timeout:   30,
		MaxTokens: 800,
	}
}

const systemPrompt = "You extract people from company research for a sales team. Reply with JSON only."

// maxPromptContent bounds the research text sent to a model
const maxPromptContent = 6000

// BuildPeoplePrompt asks for a JSON array of {"name","title"} objects
func BuildPeoplePrompt(content string) string {
	content = truncateUTF8(content, maxPromptContent)
	return fmt.Sprintf(`List every named person in the research text below together with their job title.

RULES:
1. Only include people whose full name (first and last) appears in the text.
2. Use the title as written in the text. Use "" when no title is given.
3. Do not include companies, products or places.
4. Reply with a JSON array and nothing else, for example:
[{"name": "Jane Smith", "title": "Chief Executive Officer"}]

Research text:
"""
%s
"""`, content)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

type personJSON struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// parsePeople decodes the JSON array in a model reply. Code fences and
// surrounding prose are tolerated; invalid names are dropped.
func parsePeople(reply string) ([]model.DetectedPerson, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end < start {
		return nil, eris.Errorf("llm: no JSON array in reply %q", truncate(reply, 80))
	}

	var raw []personJSON
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return nil, eris.Wrap(err, "llm: decode people")
	}

	seen := make(map[string]bool, len(raw))
	people := make([]model.DetectedPerson, 0, len(raw))
	for _, r := range raw {
		name := strings.Join(strings.Fields(r.Name), " ")
		if !extract.ValidName(name) || seen[name] {
			continue
		}
		seen[name] = true
		people = append(people, model.DetectedPerson{
			Name:  name,
			Title: strings.TrimSpace(r.Title),
		})
	}
	return people, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
