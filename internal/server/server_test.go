package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/scout/internal/model"
	"github.com/ppiankov/scout/internal/review"
)

func newTestServer() *Server {
	return New(model.ServerConfig{Mode: gin.TestMode}, nil, nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestServer(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc")
	w := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestExtract(t *testing.T) {
	body := `{"content":"Acme Corp is a subsidiary of Global Holdings. CEO Jane Smith leads the company."}`
	w := do(t, newTestServer(), http.MethodPost, "/v1/extract", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp extractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.People, model.DetectedPerson{Name: "Jane Smith", Title: "CEO"})
	require.NotNil(t, resp.Structure)
	assert.Equal(t, "Global Holdings", resp.Structure.ParentCompany)
	assert.Equal(t, "Jane Smith", resp.Structure.CEO)
}

func TestExtract_NothingFound(t *testing.T) {
	w := do(t, newTestServer(), http.MethodPost, "/v1/extract", `{"content":"The weather was nice today."}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"people":[],"structure":null,"peopleSource":"rules"}`, w.Body.String())
}

func TestExtract_BadJSON(t *testing.T) {
	w := do(t, newTestServer(), http.MethodPost, "/v1/extract", `{"content":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func TestAggregate(t *testing.T) {
	body := `{
		"findings": [
			{"id": "f2", "content": "CEO John Doe runs Acme. Its subsidiaries include Alpha Inc and Retail."},
			{"id": "f1", "content": "CEO Jane Smith and CTO Alan Turing lead Acme."}
		],
		"roster": [{"full_name": "alan turing"}],
		"divisions": [{"division_id": "d1", "name": "retail"}]
	}`
	w := do(t, newTestServer(), http.MethodPost, "/v1/aggregate", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp aggregateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.NotNil(t, resp.Structure)
	assert.Equal(t, "John Doe", resp.Structure.CEO, "first posted finding wins")
	assert.Equal(t, []string{"Alpha Inc", "Retail"}, resp.Structure.Subsidiaries)

	assert.Equal(t, []model.DetectedPerson{{Name: "Jane Smith", Title: "CEO"}}, resp.PeopleByFinding["f1"])
	assert.Equal(t, []model.DetectedPerson{{Name: "John Doe", Title: "CEO"}}, resp.PeopleByFinding["f2"])

	assert.Equal(t, []model.DivisionCandidate{
		{Name: "Alpha Inc", Selected: true, DivisionType: model.DivisionTypeSubsidiary},
	}, resp.DivisionCandidates)
}

func TestAggregate_DuplicateIDs(t *testing.T) {
	body := `{"findings":[{"id":"f1","content":"a"},{"id":"f1","content":"b"}]}`
	w := do(t, newTestServer(), http.MethodPost, "/v1/aggregate", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAggregate_Empty(t *testing.T) {
	w := do(t, newTestServer(), http.MethodPost, "/v1/aggregate", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"structure":null,"people_by_finding":{},"division_candidates":[]}`, w.Body.String())
}

type panicFinder struct{}

func (panicFinder) FindPeople(context.Context, string) ([]model.DetectedPerson, error) {
	panic("boom")
}

func TestRecovery(t *testing.T) {
	s := New(model.ServerConfig{Mode: gin.TestMode}, review.NewResolver(nil, panicFinder{}, nil), nil)
	w := do(t, s, http.MethodPost, "/v1/extract", `{"content":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	w := do(t, newTestServer(), http.MethodOptions, "/v1/extract", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
