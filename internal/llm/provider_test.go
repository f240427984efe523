package llm

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/scout/internal/cache"
	"github.com/ppiankov/scout/internal/model"
)

func TestParsePeople(t *testing.T) {
	people, err := parsePeople(`[{"name":"Grace Hopper","title":" Rear Admiral "},{"name":"Madonna"}]`)
	require.NoError(t, err)
	assert.Equal(t, []model.DetectedPerson{{Name: "Grace Hopper", Title: "Rear Admiral"}}, people)

	people, err = parsePeople("[]")
	require.NoError(t, err)
	assert.Empty(t, people)

	_, err = parsePeople("I could not find anyone.")
	assert.Error(t, err)

	_, err = parsePeople("[not json]")
	assert.Error(t, err)
}

func TestBuildPeoplePrompt_TruncatesContent(t *testing.T) {
	prompt := BuildPeoplePrompt(strings.Repeat("x", maxPromptContent+500))
	assert.Less(t, strings.Count(prompt, "x"), maxPromptContent+10)
	assert.Contains(t, prompt, "JSON array")
}

func TestBuildPeoplePrompt_KeepsRunesWhole(t *testing.T) {
	content := strings.Repeat("x", maxPromptContent-1) + "é and more text"

	cut := truncateUTF8(content, maxPromptContent)
	assert.Equal(t, strings.Repeat("x", maxPromptContent-1), cut)
	assert.True(t, utf8.ValidString(BuildPeoplePrompt(content)))

	assert.Equal(t, "Zoë", truncateUTF8("Zoë", 10))
}

func TestNewFinder(t *testing.T) {
	f, err := NewFinder(Config{})
	assert.NoError(t, err)
	assert.Nil(t, f)

	_, err = NewFinder(Config{Provider: "gemini"})
	assert.Error(t, err)

	f, err = NewFinder(Config{Provider: "Ollama", Model: "llama3.1:8b"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", f.Name())

	f, err = NewFinder(Config{Provider: "openai"})
	assert.Error(t, err)
	assert.Nil(t, f)
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(
		model.LLMConfig{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k", Timeout: 10, MaxTokens: 400},
		model.BackendConfig{HTTPSProxy: "http://proxy:3128", NoProxy: "localhost"},
	)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 400, cfg.MaxTokens)
	assert.Equal(t, "http://proxy:3128", cfg.HTTPSProxy)
	assert.Equal(t, "localhost", cfg.NoProxy)
}

type countingFinder struct {
	calls int
	err   error
}

func (f *countingFinder) Name() string { return "counting" }

func (f *countingFinder) FindPeople(ctx context.Context, content string) ([]model.DetectedPerson, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []model.DetectedPerson{{Name: "Jane Smith", Title: content}}, nil
}

func TestCachedFinder(t *testing.T) {
	ctx := context.Background()
	next := &countingFinder{}
	f := NewCachedFinder(next, cache.NewMemoryCache(time.Minute, time.Minute), 0, nil)

	a, err := f.FindPeople(ctx, "CEO")
	require.NoError(t, err)
	b, err := f.FindPeople(ctx, "CEO")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, next.calls)

	_, err = f.FindPeople(ctx, "CTO")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, "counting", f.Name())
}

func TestCachedFinder_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	next := &countingFinder{err: assert.AnError}
	f := NewCachedFinder(next, cache.NewMemoryCache(time.Minute, time.Minute), 0, nil)

	_, err := f.FindPeople(ctx, "CEO")
	assert.Error(t, err)
	_, err = f.FindPeople(ctx, "CEO")
	assert.Error(t, err)
	assert.Equal(t, 2, next.calls)
}
