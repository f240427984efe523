package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ppiankov/scout/internal/extract"
	"github.com/ppiankov/scout/internal/model"
	"github.com/ppiankov/scout/internal/review"
)

type errorResponse struct {
	Error string `json:"error"`
}

type extractRequest struct {
	Content string `json:"content"`
}

type extractResponse struct {
	People       []model.DetectedPerson   `json:"people"`
	Structure    *model.DetectedStructure `json:"structure"`
	PeopleSource extract.PeopleSource     `json:"peopleSource,omitempty"`
}

type aggregateRequest struct {
	Findings  []model.ResearchFinding `json:"findings"` // in acceptance order
	Roster    []model.Stakeholder     `json:"roster"`
	Divisions []model.Division        `json:"divisions"`
}

type aggregateResponse struct {
	Structure          *model.DetectedStructure          `json:"structure"`
	PeopleByFinding    map[string][]model.DetectedPerson `json:"people_by_finding"`
	DivisionCandidates []model.DivisionCandidate         `json:"division_candidates"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleExtract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res := s.resolver.Resolve(c.Request.Context(), model.ResearchFinding{Content: req.Content})
	people := res.People
	if people == nil {
		people = []model.DetectedPerson{}
	}
	c.JSON(http.StatusOK, extractResponse{
		People:       people,
		Structure:    res.Structure,
		PeopleSource: res.Source,
	})
}

// handleAggregate accepts every posted finding in order and returns the
// merged structure with per-finding people deduped against the roster
func (s *Server) handleAggregate(c *gin.Context) {
	var req aggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sess := review.NewSession(s.resolver, req.Roster, req.Divisions, s.logger)
	for i := range req.Findings {
		f := &req.Findings[i]
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		f.Status = model.StatusPending
	}
	if err := sess.Add(req.Findings...); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	for _, f := range req.Findings {
		if err := sess.Accept(ctx, f.ID); err != nil {
			badRequest(c, err)
			return
		}
	}

	sum := sess.Summary()
	resp := aggregateResponse{
		Structure:          sum.Structure,
		PeopleByFinding:    make(map[string][]model.DetectedPerson, len(sum.Findings)),
		DivisionCandidates: sum.Divisions,
	}
	for _, rf := range sum.Findings {
		people := rf.People
		if people == nil {
			people = []model.DetectedPerson{}
		}
		resp.PeopleByFinding[rf.Finding.ID] = people
	}
	if resp.DivisionCandidates == nil {
		resp.DivisionCandidates = []model.DivisionCandidate{}
	}
	c.JSON(http.StatusOK, resp)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}
