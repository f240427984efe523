package cli

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/scout/internal/model"
)

// writeOutput renders v as JSON or YAML
func writeOutput(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "encode json")
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "encode yaml")
	default:
		return eris.Errorf("unknown output format %q (json, yaml)", format)
	}
}

// readFindings loads findings from a file, or stdin when path is "-"
func readFindings(path string) (*model.ResearchResult, error) {
	if path != "-" {
		return model.LoadFindings(path)
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, eris.Wrap(err, "read stdin")
	}
	return model.ParseFindings(data, false)
}
