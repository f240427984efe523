package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/scout/internal/model"
	"github.com/ppiankov/scout/internal/util"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaFinder finds people with a local Ollama model
type OllamaFinder struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaFinder creates a finder for an Ollama server
func NewOllamaFinder(config Config) (*OllamaFinder, error) {
	if config.Model == "" {
		return nil, eris.New("llm: ollama model must be specified (e.g. llama3.1:8b)")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60 // local models are slower
	}

	return &OllamaFinder{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: util.NewHTTPClient(timeout, config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		config:     config,
	}, nil
}

func (p *OllamaFinder) Name() string {
	return "ollama"
}

// FindPeople asks the local model for the people in content
func (p *OllamaFinder) FindPeople(ctx context.Context, content string) ([]model.DetectedPerson, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	resp, err := p.generate(ctx, ollamaRequest{
		Model:  p.config.Model,
		Prompt: BuildPeoplePrompt(content),
		System: systemPrompt,
		Options: ollamaOptions{
			NumPredict: p.config.MaxTokens,
		},
	})
	if err != nil {
		return nil, err
	}
	return parsePeople(resp.Response)
}

func (p *OllamaFinder) generate(ctx context.Context, apiReq ollamaRequest) (*ollamaResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, eris.Wrap(err, "llm: marshal ollama request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "llm: create ollama request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, eris.Wrapf(err, "llm: call ollama at %s", p.baseURL)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "llm: read ollama response")
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, eris.Errorf("llm: ollama error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, eris.Errorf("llm: ollama error (%d): %s", httpResp.StatusCode, truncate(string(respBody), 200))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, eris.Wrap(err, "llm: decode ollama response")
	}
	return &resp, nil
}
