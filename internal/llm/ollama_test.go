package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/scout/internal/model"
)

func TestOllamaFinder_FindPeople(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.1:8b", req.Model)
		assert.False(t, req.Stream)

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:    req.Model,
			Response: `Here you go: [{"name": "Alan Turing", "title": "CTO"}]`,
			Done:     true,
		})
	}))
	defer server.Close()

	finder, err := NewOllamaFinder(Config{Model: "llama3.1:8b", BaseURL: server.URL + "/"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", finder.Name())

	people, err := finder.FindPeople(context.Background(), "CTO Alan Turing joined.")
	require.NoError(t, err)
	assert.Equal(t, []model.DetectedPerson{{Name: "Alan Turing", Title: "CTO"}}, people)
}

func TestOllamaFinder_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'nope' not found"}`))
	}))
	defer server.Close()

	finder, err := NewOllamaFinder(Config{Model: "nope", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = finder.FindPeople(context.Background(), "CTO Alan Turing joined.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestNewOllamaFinder_RequiresModel(t *testing.T) {
	_, err := NewOllamaFinder(Config{})
	assert.Error(t, err)
}
