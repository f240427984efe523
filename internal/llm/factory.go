package llm

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/scout/internal/model"
)

// NewFinder creates the people finder named by config.Provider.
// An empty provider disables the finder and returns nil, nil.
func NewFinder(config Config) (PeopleFinder, error) {
	var (
		finder PeopleFinder
		err    error
	)
	switch strings.ToLower(config.Provider) {
	case "openai":
		finder, err = NewOpenAIFinder(config)
	case "ollama":
		finder, err = NewOllamaFinder(config)
	case "":
		return nil, nil
	default:
		return nil, eris.Errorf("llm: unknown provider %q (supported: openai, ollama)", config.Provider)
	}
	if err != nil {
		return nil, err
	}
	return finder, nil
}

// ConfigFromModel builds a provider config from the application config.
// Proxy settings are shared with the backend client.
func ConfigFromModel(llmCfg model.LLMConfig, backend model.BackendConfig) Config {
	return Config{
		Provider:   llmCfg.Provider,
		Model:      llmCfg.Model,
		APIKey:     llmCfg.APIKey,
		BaseURL:    llmCfg.BaseURL,
		Timeout:    llmCfg.Timeout,
		MaxTokens:  llmCfg.MaxTokens,
		HTTPProxy:  backend.HTTPProxy,
		HTTPSProxy: backend.HTTPSProxy,
		NoProxy:    backend.NoProxy,
	}
}
