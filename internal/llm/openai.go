package llm

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/scout/internal/model"
	"github.com/ppiankov/scout/internal/util"
)

// OpenAIFinder finds people with an OpenAI chat model
type OpenAIFinder struct {
	client *openai.Client
	config Config
}

// NewOpenAIFinder creates a finder for OpenAI or any compatible endpoint
func NewOpenAIFinder(config Config) (*OpenAIFinder, error) {
	if config.APIKey == "" && config.BaseURL == "" {
		return nil, eris.New("llm: OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = util.NewHTTPClient(config.Timeout, config.HTTPProxy, config.HTTPSProxy, config.NoProxy)

	return &OpenAIFinder{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

func (p *OpenAIFinder) Name() string {
	return "openai"
}

// FindPeople asks the model for the people in content
func (p *OpenAIFinder) FindPeople(ctx context.Context, content string) ([]model.DetectedPerson, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	modelName := p.config.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	maxTokens := p.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 800
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPeoplePrompt(content)},
		},
		MaxTokens:   maxTokens,
		Temperature: 0,
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: openai chat completion")
	}
	if len(resp.Choices) == 0 {
		return nil, eris.New("llm: no response from OpenAI")
	}

	return parsePeople(resp.Choices[0].Message.Content)
}
