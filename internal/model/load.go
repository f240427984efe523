package model

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ResearchResult is the research service response envelope
type ResearchResult struct {
	Findings []ResearchFinding `json:"findings" yaml:"findings"`
	Summary  string            `json:"summary,omitempty" yaml:"summary,omitempty"`
}

type researchEnvelope struct {
	Research       *ResearchResult `json:"research" yaml:"research"`
	ResearchResult `yaml:",inline"`
}

// LoadFindings reads findings from a JSON or YAML file.
// Accepts a bare list, {"findings": [...]}, or {"research": {"findings": [...]}}.
func LoadFindings(path string) (*ResearchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read findings %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	result, err := ParseFindings(data, ext == ".yaml" || ext == ".yml")
	if err != nil {
		return nil, eris.Wrapf(err, "model: parse findings %s", path)
	}
	return result, nil
}

// ParseFindings decodes findings from JSON (or YAML when asYAML is set) and
// fills in missing IDs, confidence and status.
func ParseFindings(data []byte, asYAML bool) (*ResearchResult, error) {
	unmarshal := json.Unmarshal
	if asYAML {
		unmarshal = yaml.Unmarshal
	}

	var result ResearchResult
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || (asYAML && trimmed[0] == '-')) {
		if err := unmarshal(trimmed, &result.Findings); err != nil {
			return nil, eris.Wrap(err, "decode finding list")
		}
	} else {
		var env researchEnvelope
		if err := unmarshal(trimmed, &env); err != nil {
			return nil, eris.Wrap(err, "decode research envelope")
		}
		if env.Research != nil {
			result = *env.Research
		} else {
			result = env.ResearchResult
		}
	}

	for i := range result.Findings {
		f := &result.Findings[i]
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		if !f.Confidence.Valid() {
			f.Confidence = ConfidenceMedium
		}
		if f.Status == "" {
			f.Status = StatusPending
		}
	}
	return &result, nil
}
